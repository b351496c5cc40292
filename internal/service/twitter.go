package service

import (
	"context"
	"fmt"

	"starconnect-back/internal/model"
	"starconnect-back/pkg/twitter"
)

// TwitterPublisher adapts the Twitter API client to the platform publisher
// contract used by the publish queue.
type TwitterPublisher struct {
	client twitter.Client
}

func NewTwitterPublisher(client twitter.Client) *TwitterPublisher {
	return &TwitterPublisher{client: client}
}

func (p *TwitterPublisher) Publish(ctx context.Context, account *model.SocialAccount, text string) (*PlatformPost, error) {
	creds := twitter.Credentials{
		AccessToken:  account.AccessToken,
		AccessSecret: account.RefreshToken,
	}

	id, err := p.client.PublishTweet(ctx, creds, text, nil)
	if err != nil {
		return nil, err
	}

	return &PlatformPost{
		ID:  id,
		URL: fmt.Sprintf("https://twitter.com/%s/status/%s", account.Username, id),
	}, nil
}
