package chat

import (
	"context"
	"testing"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/chat"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChat struct {
	got []chat.Message
	err error
}

func (r *recordingChat) Close() error { return nil }

func (r *recordingChat) Send(_ context.Context, msg chat.Message) (chat.Response, error) {
	r.got = append(r.got, msg)
	if r.err != nil {
		return nil, r.err
	}
	return chat.Response{"code": float64(200)}, nil
}

func TestChatSend(t *testing.T) {
	client := &recordingChat{}
	c := New(client, instrument.NewNoop())

	resp, err := c.Send(context.Background(), entity.Notification{
		AssetID:   "a1",
		Channel:   entity.ChannelChat,
		Recipient: "tok-123456",
		Subject:   "[紧急] Domain X 今天到期！",
		Body:      "<b>Domain X</b>",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(200), resp["code"])
	assert.Equal(t, []chat.Message{{Token: "tok-123456", Title: "[紧急] Domain X 今天到期！", Content: "<b>Domain X</b>"}}, client.got)

	client.err = &chat.ProviderError{StatusCode: 200, Code: 903, Message: "invalid token"}
	_, err = c.Send(context.Background(), entity.Notification{Recipient: "bad"})
	var perr *chat.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 903, perr.Code)
}
