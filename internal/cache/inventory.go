package cache

import (
	"context"
	"fmt"
	"time"

	"epowrite/internal/observability"
)

const (
	UserKeyPrefix          = "user:%d"
	PostKeyPrefix          = "post:%d"
	FeedKeyPrefix          = "feed:%d:%d"
	AuthorPostsKeyPrefix   = "author:%d:posts"
	NotificationsKeyPrefix = "user:%d:notifications"
)

const (
	UserTTL          = 5 * time.Minute
	PostTTL          = 5 * time.Minute
	FeedTTL          = 1 * time.Minute
	AuthorPostsTTL   = 2 * time.Minute
	NotificationsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedKey identifies one window of the unfiltered public feed, keyed by the
// exact (offset, limit) pair so an unaligned offset never shares an aligned
// page's entry. Filtered feed queries bypass the cache entirely.
func FeedKey(offset, limit int) string {
	return fmt.Sprintf(FeedKeyPrefix, offset, limit)
}

func AuthorPostsKey(authorID uint) string {
	return fmt.Sprintf(AuthorPostsKeyPrefix, authorID)
}

func NotificationsKey(userID uint) string {
	return fmt.Sprintf(NotificationsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
		observability.RecordCacheInvalidation(keyPrefix(key))
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the cached post and every cached feed window. Feed
// windows are keyed feed:<offset>:<limit> so a SCAN-based sweep stays bounded.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidateFeed(ctx)
}

// InvalidateFeed removes all cached feed pages.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	observability.RecordCacheInvalidation("feed")
}

func InvalidateAuthorPosts(ctx context.Context, authorID uint) {
	Invalidate(ctx, AuthorPostsKey(authorID))
}

func InvalidateNotifications(ctx context.Context, userID uint) {
	Invalidate(ctx, NotificationsKey(userID))
}
