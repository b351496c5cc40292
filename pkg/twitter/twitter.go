package twitter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dghubble/oauth1"
	gotwitter "github.com/g8rswimmer/go-twitter/v2"
)

const (
	apiHost = "https://api.twitter.com"

	// Twitter allows at most four media attachments per tweet.
	maxMediaPerTweet = 4
)

// Credentials is a decrypted OAuth 1.0a user token pair.
type Credentials struct {
	AccessToken  string
	AccessSecret string
}

// Config carries the application key pair, shared by every user session.
type Config struct {
	APIKey    string
	APISecret string
}

type Tweet struct {
	ID        string
	Text      string
	CreatedAt string
	Likes     int
	Retweets  int
	Replies   int
}

// Client talks to the Twitter v2 API. Request signing is done by an oauth1
// transport, so the go-twitter authorizer is a no-op.
type Client interface {
	PublishTweet(ctx context.Context, creds Credentials, text string, mediaIDs []string) (id string, err error)
	UserTweets(ctx context.Context, creds Credentials, platformUserID string, maxResults int) ([]Tweet, error)
	AuthorizeURL(callbackURL string) string
}

type client struct {
	cfg *Config
}

func New(cfg *Config) Client {
	return &client{cfg: cfg}
}

// noopAuthorizer satisfies go-twitter; the oauth1 http.Client already signs.
type noopAuthorizer struct{}

func (noopAuthorizer) Add(*http.Request) {}

func (c *client) api(creds Credentials) *gotwitter.Client {
	oauthCfg := oauth1.NewConfig(c.cfg.APIKey, c.cfg.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	return &gotwitter.Client{
		Authorizer: noopAuthorizer{},
		Client:     oauthCfg.Client(oauth1.NoContext, token),
		Host:       apiHost,
	}
}

func (c *client) PublishTweet(ctx context.Context, creds Credentials, text string, mediaIDs []string) (string, error) {
	req := gotwitter.CreateTweetRequest{
		Text: text,
	}

	if len(mediaIDs) > 0 {
		if len(mediaIDs) > maxMediaPerTweet {
			mediaIDs = mediaIDs[:maxMediaPerTweet]
		}

		req.Media = &gotwitter.CreateTweetMedia{IDs: mediaIDs}
	}

	resp, err := c.api(creds).CreateTweet(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to post tweet: %w", err)
	}

	if resp == nil || resp.Tweet == nil {
		return "", fmt.Errorf("empty tweet response")
	}

	return resp.Tweet.ID, nil
}

func (c *client) UserTweets(ctx context.Context, creds Credentials, platformUserID string, maxResults int) ([]Tweet, error) {
	opts := gotwitter.UserTweetTimelineOpts{
		MaxResults:  maxResults,
		TweetFields: []gotwitter.TweetField{gotwitter.TweetFieldCreatedAt, gotwitter.TweetFieldPublicMetrics},
	}

	resp, err := c.api(creds).UserTweetTimeline(ctx, platformUserID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}

	if resp == nil || resp.Raw == nil {
		return nil, nil
	}

	tweets := make([]Tweet, 0, len(resp.Raw.Tweets))

	for _, t := range resp.Raw.Tweets {
		if t == nil {
			continue
		}

		tweet := Tweet{
			ID:        t.ID,
			Text:      t.Text,
			CreatedAt: t.CreatedAt,
		}

		if t.PublicMetrics != nil {
			tweet.Likes = t.PublicMetrics.Likes
			tweet.Retweets = t.PublicMetrics.Retweets
			tweet.Replies = t.PublicMetrics.Replies
		}

		tweets = append(tweets, tweet)
	}

	return tweets, nil
}

// AuthorizeURL returns the OAuth 1.0a authorize link. The full request-token
// dance lives outside this service, the frontend completes it and posts the
// resulting token pair to the connect endpoint.
func (c *client) AuthorizeURL(callbackURL string) string {
	return fmt.Sprintf("https://twitter.com/oauth/authorize?oauth_callback=%s", callbackURL)
}
