package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"interop-lab/domain"
	"interop-lab/domain/event"
)

func TestRequest_Decode(t *testing.T) {
	req := require.New(t)

	raw := `{"seq":7,"op":"broadcast","channelId":"red",
		"context":{"type":"fdc3.instrument","payload":{"ticker":"AAPL"}}}`
	var request Request
	req.NoError(json.Unmarshal([]byte(raw), &request))

	req.Equal(int64(7), request.Seq)
	req.Equal(OpBroadcast, request.Op)
	req.Equal("red", request.ChannelID)
	req.NotNil(request.Context)
	req.Equal("fdc3.instrument", request.Context.Type)
	req.JSONEq(`{"ticker":"AAPL"}`, string(request.Context.Payload))
}

func TestEventFrame_CarriesOriginChannel(t *testing.T) {
	req := require.New(t)

	payload, _ := json.Marshal(map[string]string{"ticker": "AAPL"})
	broadcast := event.ContextBroadcast{
		ID:      uuid.New(),
		Channel: domain.NewDesktopChannel("red", "Red", "#FF0000"),
		Sender:  domain.NewWindowID(),
		Handle:  "client-snoop",
		Context: domain.NewContext("fdc3.instrument", payload),
		At:      time.Now().UTC(),
	}

	frame := toEventFrame(broadcast)
	req.Equal(OpEvent, frame.Op)
	req.Equal("broadcast", frame.Type)
	req.Equal("client-snoop", frame.ListenerID)
	req.Equal("red", frame.Channel.ID)
	req.Equal("desktop", frame.Channel.Type)

	// The wire shape is the documented {type, channel, context} event
	encoded, err := json.Marshal(frame)
	req.NoError(err)
	req.Contains(string(encoded), `"type":"broadcast"`)
	req.Contains(string(encoded), `"id":"red"`)
}

func TestResponse_OmitsEmptyFields(t *testing.T) {
	req := require.New(t)

	encoded, err := json.Marshal(Response{Seq: 1, Op: OpJoin, OK: true})
	req.NoError(err)

	// Error, context, and channel fields stay off the wire when unset
	req.NotContains(string(encoded), "error")
	req.NotContains(string(encoded), "context")
	req.NotContains(string(encoded), "channels")
}

func TestDescriptors_RoundTrip(t *testing.T) {
	req := require.New(t)

	channels := []domain.Channel{
		domain.DefaultChannel(),
		domain.GlobalChannel(),
		domain.NewDesktopChannel("red", "Red", "#FF0000"),
	}
	descriptors := toDescriptors(channels)

	req.Len(descriptors, 3)
	req.Equal("default", descriptors[0].Type)
	req.Equal("global", descriptors[1].Type)
	req.Equal("Red", descriptors[2].Name)
	req.Equal("#FF0000", descriptors[2].Color)
}
