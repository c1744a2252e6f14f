package senders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mcwamsie/finsco-hub/pkg/email"
	"github.com/mcwamsie/finsco-hub/pkg/notify"
	"github.com/mcwamsie/finsco-hub/pkg/notify/inbox"
	"github.com/mcwamsie/finsco-hub/pkg/notify/senders"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func emailRequest(recipient string) notify.SendRequest {
	return notify.SendRequest{
		NotificationID: uuid.New(),
		Channel:        notify.ChannelEmail,
		Recipient:      recipient,
		Title:          "Claim approved",
		Body:           "<p>Your claim CLM-1042 was approved.</p>",
	}
}

func TestEmailSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("maps request onto mailer params", func(t *testing.T) {
		t.Parallel()

		mailer := &MockMailer{}
		mailer.On("SendEmail", mock.Anything, email.SendEmailParams{
			SendTo:   "member@example.com",
			Subject:  "Claim approved",
			BodyHTML: "<p>Your claim CLM-1042 was approved.</p>",
			Tag:      "claims",
		}).Return(nil)

		sender, err := senders.NewEmailSender(mailer, senders.WithEmailTag("claims"))
		require.NoError(t, err)

		require.NoError(t, sender.Send(ctx, emailRequest("member@example.com")))
		mailer.AssertExpectations(t)
	})

	t.Run("recipient rejection is permanent", func(t *testing.T) {
		t.Parallel()

		mailer := &MockMailer{}
		mailer.On("SendEmail", mock.Anything, mock.Anything).
			Return(errors.Join(email.ErrRecipientRejected, errors.New("hard bounce")))

		sender, err := senders.NewEmailSender(mailer)
		require.NoError(t, err)

		err = sender.Send(ctx, emailRequest("bounced@example.com"))
		require.Error(t, err)
		assert.True(t, notify.IsPermanent(err))
	})

	t.Run("invalid params are permanent", func(t *testing.T) {
		t.Parallel()

		mailer := &MockMailer{}
		mailer.On("SendEmail", mock.Anything, mock.Anything).
			Return(errors.Join(email.ErrInvalidParams, errors.New("empty recipient")))

		sender, err := senders.NewEmailSender(mailer)
		require.NoError(t, err)

		err = sender.Send(ctx, emailRequest(""))
		require.Error(t, err)
		assert.True(t, notify.IsPermanent(err))
	})

	t.Run("provider outage is transient", func(t *testing.T) {
		t.Parallel()

		mailer := &MockMailer{}
		mailer.On("SendEmail", mock.Anything, mock.Anything).
			Return(errors.Join(email.ErrFailedToSendEmail, errors.New("503")))

		sender, err := senders.NewEmailSender(mailer)
		require.NoError(t, err)

		err = sender.Send(ctx, emailRequest("member@example.com"))
		require.Error(t, err)
		assert.False(t, notify.IsPermanent(err))
	})

	t.Run("nil mailer rejected", func(t *testing.T) {
		t.Parallel()

		_, err := senders.NewEmailSender(nil)
		assert.ErrorIs(t, err, senders.ErrMailerNil)
	})
}

func TestSMSSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sends through the gateway", func(t *testing.T) {
		t.Parallel()

		gateway := &senders.RecordingSMSGateway{}
		sender, err := senders.NewSMSSender(gateway)
		require.NoError(t, err)

		require.NoError(t, sender.Send(ctx, notify.SendRequest{
			Channel:   notify.ChannelSMS,
			Recipient: "+263771234567",
			Body:      "Your claim CLM-1042 was approved.",
		}))

		messages := gateway.Messages()
		require.Len(t, messages, 1)
		assert.Equal(t, "+263771234567", messages[0].Phone)
	})

	t.Run("missing phone number is permanent", func(t *testing.T) {
		t.Parallel()

		sender, err := senders.NewSMSSender(&senders.RecordingSMSGateway{})
		require.NoError(t, err)

		err = sender.Send(ctx, notify.SendRequest{Channel: notify.ChannelSMS})
		require.ErrorIs(t, err, senders.ErrNoRecipient)
		assert.True(t, notify.IsPermanent(err))
	})
}

func TestPushSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing device token is permanent", func(t *testing.T) {
		t.Parallel()

		gateway := pushGatewayFunc(func(ctx context.Context, token string, payload senders.PushPayload) error {
			t.Fatal("gateway must not be called without a token")
			return nil
		})
		sender, err := senders.NewPushSender(gateway)
		require.NoError(t, err)

		err = sender.Send(ctx, notify.SendRequest{Channel: notify.ChannelPush})
		require.ErrorIs(t, err, senders.ErrNoRecipient)
		assert.True(t, notify.IsPermanent(err))
	})

	t.Run("forwards payload to the gateway", func(t *testing.T) {
		t.Parallel()

		var got senders.PushPayload
		gateway := pushGatewayFunc(func(ctx context.Context, token string, payload senders.PushPayload) error {
			got = payload
			return nil
		})
		sender, err := senders.NewPushSender(gateway)
		require.NoError(t, err)

		require.NoError(t, sender.Send(ctx, notify.SendRequest{
			Channel:   notify.ChannelPush,
			Recipient: "device-token-1",
			Title:     "Claim approved",
			Body:      "Your claim CLM-1042 was approved.",
		}))
		assert.Equal(t, senders.PushPayload{Title: "Claim approved", Body: "Your claim CLM-1042 was approved."}, got)
	})
}

type pushGatewayFunc func(ctx context.Context, token string, payload senders.PushPayload) error

func (f pushGatewayFunc) SendPush(ctx context.Context, token string, payload senders.PushPayload) error {
	return f(ctx, token, payload)
}

func TestInAppSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("publishes to the subscriber feed", func(t *testing.T) {
		t.Parallel()

		feed := inbox.NewFeed()
		defer feed.Close()

		sub := feed.Subscribe(ctx, "member-1")
		defer sub.Close()

		sender, err := senders.NewInAppSender(feed)
		require.NoError(t, err)

		id := uuid.New()
		require.NoError(t, sender.Send(ctx, notify.SendRequest{
			NotificationID: id,
			Channel:        notify.ChannelInApp,
			Recipient:      "member-1",
			Title:          "Claim approved",
		}))

		select {
		case n := <-sub.Receive():
			assert.Equal(t, id, n.ID)
			assert.Equal(t, "member-1", n.UserID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for the feed")
		}
	})

	t.Run("closed feed is a transient failure", func(t *testing.T) {
		t.Parallel()

		feed := inbox.NewFeed()
		sender, err := senders.NewInAppSender(feed)
		require.NoError(t, err)
		feed.Close()

		err = sender.Send(ctx, notify.SendRequest{Channel: notify.ChannelInApp, Recipient: "member-1"})
		require.Error(t, err)
		assert.False(t, notify.IsPermanent(err))
	})
}
