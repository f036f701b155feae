package mealopt

import (
	"context"
	"net/http"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Notifier interface {
	PostMessage(ctx context.Context, channel string, message string) error
}
