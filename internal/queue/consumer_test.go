package queue

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	sent []EmailRequested
	err  error
}

func (f *fakeDeliverer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, EmailRequested{To: to, Subject: subject, Body: body})
	return nil
}

func TestHandleMessageDelivers(t *testing.T) {
	d := &fakeDeliverer{}
	payload, err := json.Marshal(EmailRequested{
		EventID: "ev-1",
		To:      "ana@example.com",
		Subject: "Reset Password Code - CatalogStudio",
		Body:    "<p>Your verification code is: <strong>042137</strong></p>",
	})
	require.NoError(t, err)

	require.NoError(t, handleMessage(payload, d))
	require.Len(t, d.sent, 1)
	assert.Equal(t, "ana@example.com", d.sent[0].To)
	assert.Contains(t, d.sent[0].Body, "042137")
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	d := &fakeDeliverer{}
	assert.Error(t, handleMessage([]byte("not json"), d))
	assert.Empty(t, d.sent)
}

func TestHandleMessageRejectsMissingRecipient(t *testing.T) {
	d := &fakeDeliverer{}
	payload, _ := json.Marshal(EmailRequested{EventID: "ev-2", Subject: "s", Body: "b"})
	assert.Error(t, handleMessage(payload, d))
}

func TestHandleMessagePropagatesDeliveryFailure(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("relay down")}
	payload, _ := json.Marshal(EmailRequested{EventID: "ev-3", To: "ana@example.com"})
	assert.Error(t, handleMessage(payload, d))
}
