package snowloader_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"go.dtakahashi.dev/snowloader"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(f roundTripperFunc) *http.Client {
	return &http.Client{Transport: f}
}

func TestSlackNotifier(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":true}`)),
			Header:     http.Header{},
		}, nil
	})

	n := &snowloader.SlackNotifier{
		Channel:    "#channel",
		Token:      "token",
		IconEmoji:  ":emoji:",
		Username:   "username",
		HTTPClient: client,
	}

	r := &snowloader.Result{
		Event:   snowloader.Event{Bucket: "bucket", Key: "testfile"},
		Handler: &snowloader.Handler{Name: "myhandler"},
		Loaded:  3,
	}

	err := n.Notify(context.Background(), r)
	if err != nil {
		t.Errorf("unexpected slack.Notify error: %s", err)
	}
}

func TestSlackNotifier_apiError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":false,"error":"invalid_auth"}`)),
			Header:     http.Header{},
		}, nil
	})

	n := &snowloader.SlackNotifier{
		Channel:    "#channel",
		Token:      "token",
		HTTPClient: client,
	}

	r := &snowloader.Result{
		Event:   snowloader.Event{Bucket: "bucket", Key: "testfile"},
		Handler: &snowloader.Handler{Name: "myhandler"},
	}

	if err := n.Notify(context.Background(), r); err == nil {
		t.Error("expected error but no error occurred")
	}
}
