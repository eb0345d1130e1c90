package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	QuestionKeyPrefix     = "question:%d"
	QuestionListPrefix    = "questions:%s:%d:%d"
	AnswerListPrefix      = "question:%d:answers"
	TagListKeyName        = "tags:all"
	NotificationKeyPrefix = "user:%d:notifications"
)

const (
	UserTTL         = 5 * time.Minute
	QuestionTTL     = 10 * time.Minute
	ListTTL         = 30 * time.Second
	TagListTTL      = 5 * time.Minute
	NotificationTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func QuestionKey(questionID uint) string {
	return fmt.Sprintf(QuestionKeyPrefix, questionID)
}

func QuestionListKey(sort string, page, limit int) string {
	return fmt.Sprintf(QuestionListPrefix, sort, page, limit)
}

func AnswerListKey(questionID uint) string {
	return fmt.Sprintf(AnswerListPrefix, questionID)
}

func TagListKey() string {
	return TagListKeyName
}

func NotificationKey(userID uint) string {
	return fmt.Sprintf(NotificationKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateQuestion(ctx context.Context, questionID uint) {
	Invalidate(ctx, QuestionKey(questionID))
	Invalidate(ctx, AnswerListKey(questionID))
}

// InvalidateQuestionLists drops every cached question list page. List keys are
// few (bounded by sort variants and pages actually requested within ListTTL),
// so a SCAN walk is cheap.
func InvalidateQuestionLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "questions:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateTags(ctx context.Context) {
	Invalidate(ctx, TagListKey())
}

func InvalidateNotifications(ctx context.Context, userID uint) {
	Invalidate(ctx, NotificationKey(userID))
}
