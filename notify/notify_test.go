package notify_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"mealopt/notify"
	"mealopt/optimizer"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type mockDoer struct {
	resp   *http.Response
	err    error
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return m.resp, m.err
}

func TestNewClient(t *testing.T) {
	webhook := "http://chat.example.com/webhook"
	client := notify.NewClient(webhook, &mockDoer{})
	must.NotNil(t, client, "expected non-nil client")
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name    string
		doFunc  func(req *http.Request) (*http.Response, error)
		wantErr error
	}{
		{
			name: "success",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
			},
			wantErr: nil,
		},
		{
			name: "failure status",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Body: io.NopCloser(bytes.NewBufferString("bad request"))}, nil
			},
			wantErr: fmt.Errorf("failed to post message: 400 Bad Request"),
		},
		{
			name: "do error",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
			wantErr: fmt.Errorf("network error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := notify.NewClient("http://example.com/webhook", &mockDoer{doFunc: tt.doFunc})
			err := client.PostMessage(context.Background(), "#nutrition", "Hello, world!")
			should.Equal(t, tt.wantErr, err)
		})
	}
}

func TestFormatResult(t *testing.T) {
	result := optimizer.SearchResult{
		RunID:          "run-1",
		InitialFitness: 4000,
		Fitness:        5,
		Iterations:     42,
		Changes: []optimizer.Change{
			{Kind: optimizer.ChangeAdjusted, FoodID: "oatmeal", Name: "Oatmeal", Unit: "cup", From: 1, To: 1.5},
			{Kind: optimizer.ChangeRemoved, FoodID: "banana", Name: "Banana", From: 1},
		},
	}

	got := notify.FormatResult(result)
	should.Contains(t, got, "run-1")
	should.Contains(t, got, "4000.00 -> 5.00")
	should.Contains(t, got, "Change Oatmeal from 1 to 1.5 cup")
	should.Contains(t, got, "Remove Banana")

	empty := notify.FormatResult(optimizer.SearchResult{RunID: "run-2"})
	should.Contains(t, empty, "No changes.")
}
