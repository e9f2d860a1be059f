package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carousel/internal/notifications"
	"carousel/internal/testsupport"
)

type recorded struct {
	title    string
	priority string
	tags     string
	body     string
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, *[]recorded) {
	t.Helper()
	var requests []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recorded{
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			tags:     r.Header.Get("Tags"),
			body:     string(body),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestNoopWhenTopicUnset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service := notifications.NewService(cfg)

	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop TestNotification: %v", err)
	}
	if err := service.NotifyFileFailed(context.Background(), "/incoming/x.mkv", errors.New("boom")); err != nil {
		t.Fatalf("noop NotifyFileFailed: %v", err)
	}
}

func TestNotifyFileOrganizedSendsPayload(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	service := notifications.NewService(cfg)

	err := service.NotifyFileOrganized(context.Background(), "Inception", "/library/movies/Inception-2010.mkv")
	if err != nil {
		t.Fatalf("NotifyFileOrganized: %v", err)
	}

	if len(*requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(*requests))
	}
	got := (*requests)[0]
	if got.title != "Carousel - Organized" {
		t.Fatalf("title = %q", got.title)
	}
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
	if !strings.Contains(got.body, "Inception") || !strings.Contains(got.body, "Inception-2010.mkv") {
		t.Fatalf("body = %q", got.body)
	}
}

func TestNotifyNeedsReviewIncludesReason(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	service := notifications.NewService(cfg)

	err := service.NotifyFileNeedsReview(context.Background(), "/incoming/mystery.mkv", "no provider match")
	if err != nil {
		t.Fatalf("NotifyFileNeedsReview: %v", err)
	}

	got := (*requests)[0]
	if !strings.Contains(got.body, "mystery.mkv") || !strings.Contains(got.body, "no provider match") {
		t.Fatalf("body = %q", got.body)
	}
	if !strings.Contains(got.tags, "review") {
		t.Fatalf("tags = %q", got.tags)
	}
}

func TestSendReportsServerError(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusInternalServerError)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	service := notifications.NewService(cfg)

	if err := service.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
