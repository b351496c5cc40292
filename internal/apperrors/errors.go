package apperrors

import (
	"errors"
)

var (
	ErrShutdown = errors.New("shutdown error")

	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrUserDoesNotExist      = errors.New("user does not exist")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrRefreshTokenExpired   = errors.New("refresh token expired")
	ErrResetTokenInvalid     = errors.New("password reset token is invalid or expired")

	ErrContextValueDoesNotExist = errors.New("context value does not exist")
	ErrContextValueInvalidType  = errors.New("invalid context value type")

	ErrContentDoesNotExist = errors.New("content does not exist")
	ErrSlugAlreadyExists   = errors.New("slug already exists")
	ErrContentAccessDenied = errors.New("content belongs to another user")
	ErrContentNotPublished = errors.New("content is not published")

	ErrCommentDoesNotExist = errors.New("comment does not exist")
	ErrCommentAccessDenied = errors.New("comment belongs to another user's content")

	ErrMediaDoesNotExist = errors.New("media does not exist")
	ErrMediaAccessDenied = errors.New("media belongs to another user")

	ErrSubscriberDoesNotExist = errors.New("subscriber does not exist")

	ErrProfileIsPrivate = errors.New("profile is private")

	ErrQueueItemDoesNotExist = errors.New("queue item does not exist")
	ErrQueueItemNotOwned     = errors.New("queue item belongs to another user")
	ErrQueueItemNotPending   = errors.New("can only cancel pending items")
	ErrNoPlatforms           = errors.New("platforms list is empty")
	ErrUnsupportedPlatform   = errors.New("unsupported platform")
	ErrAccountNotConnected   = errors.New("account not connected")
	ErrAccountDoesNotExist   = errors.New("social account does not exist")

	ErrCrisisModeDoesNotExist = errors.New("crisis mode is not configured")
)
