package ws

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"interop-lab/domain"
	"interop-lab/domain/event"
	"interop-lab/services"
	"interop-lab/sink"
)

// Server upgrades window connections and speaks the frame protocol.
//
// Each connection gets a window id, a buffered ConnSink registered with the
// engine, and a single writer goroutine (gorilla connections allow one
// concurrent writer). The reader goroutine handles request frames inline:
// engine calls never block, so serving them on the read loop keeps request
// order per window without extra machinery.
type Server struct {
	log            *slog.Logger
	service        services.IInteropService
	upgrader       websocket.Upgrader
	sinkBufferSize int
}

func NewServer(log *slog.Logger, service services.IInteropService, sinkBufferSize int) *Server {
	return &Server{
		log:     log,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Windows connect from file:// and app origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sinkBufferSize: sinkBufferSize,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Upgrade failed", "error", err)
		return
	}
	go s.handle(conn)
}

// handle owns one window connection from hello to cleanup.
// Proper cleanup is ensured via deferred disconnection to prevent stale
// membership and listener registrations in the engine.
func (s *Server) handle(conn *websocket.Conn) {
	windowID := domain.NewWindowID()
	connSink := sink.NewConnSink(s.sinkBufferSize)
	s.service.Connect(windowID, connSink)

	responses := make(chan Response, s.sinkBufferSize)
	done := make(chan struct{})
	defer func() {
		close(done)
		s.service.Disconnect(windowID)
		_ = conn.Close()
	}()

	go s.writeLoop(conn, windowID, connSink, responses, done)

	defaultChannel := toDescriptor(s.service.DefaultChannel())
	responses <- Response{
		Op:       OpHello,
		OK:       true,
		WindowID: windowID.String(),
		Channel:  &defaultChannel,
	}

	for {
		var request Request
		if err := conn.ReadJSON(&request); err != nil {
			s.log.Warn(fmt.Sprintf("Window %s disconnected", windowID), "error", err)
			return
		}
		select {
		case responses <- s.serve(windowID, request):
		case <-done:
			return
		}
	}
}

// writeLoop is the single writer towards the socket: it interleaves
// request responses with pushed listener deliveries.
func (s *Server) writeLoop(conn *websocket.Conn, windowID domain.WindowID,
	connSink *sink.ConnSink, responses <-chan Response, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case response := <-responses:
			if err := conn.WriteJSON(response); err != nil {
				s.log.Error("Failed to push response to socket",
					"window_id", windowID, "error", err)
				return
			}
		case evt := <-connSink.Events:
			broadcast, ok := evt.(event.ContextBroadcast)
			if !ok {
				continue
			}
			if err := conn.WriteJSON(toEventFrame(broadcast)); err != nil {
				s.log.Error("Failed to push event to socket",
					"window_id", windowID, "error", err)
				return
			}
		}
	}
}

// serve maps one request frame onto the service surface.
func (s *Server) serve(windowID domain.WindowID, request Request) Response {
	response := Response{Seq: request.Seq, Op: request.Op, OK: true}

	fail := func(err error) Response {
		response.OK = false
		response.Error = err.Error()
		return response
	}

	switch request.Op {
	case OpBroadcast:
		if request.Context == nil {
			return fail(fmt.Errorf("broadcast requires a context"))
		}
		if err := s.service.Broadcast(windowID, request.ChannelID, fromContextFrame(*request.Context)); err != nil {
			return fail(err)
		}

	case OpBroadcastCurrent:
		if request.Context == nil {
			return fail(fmt.Errorf("broadcast requires a context"))
		}
		if err := s.service.BroadcastCurrent(windowID, fromContextFrame(*request.Context)); err != nil {
			return fail(err)
		}

	case OpGetCurrentContext:
		context, err := s.service.GetCurrentContext(request.ChannelID)
		if err != nil {
			return fail(err)
		}
		if context != nil {
			frame := toContextFrame(*context)
			response.Context = &frame
		}

	case OpJoin:
		if err := s.service.Join(windowID, request.ChannelID); err != nil {
			return fail(err)
		}

	case OpLeave:
		if err := s.service.Leave(windowID); err != nil {
			return fail(err)
		}

	case OpAddEventListener:
		if err := s.service.AddEventListener(request.ChannelID, windowID,
			event.EventType(request.EventType), request.Handle); err != nil {
			return fail(err)
		}

	case OpRemoveEventListener:
		if err := s.service.RemoveEventListener(request.ChannelID, windowID,
			event.EventType(request.EventType), request.Handle); err != nil {
			return fail(err)
		}

	case OpGetDesktopChannels:
		response.Channels = toDescriptors(s.service.GetDesktopChannels())

	case OpCreateAppChannel:
		channel, err := s.service.CreateAppChannel()
		if err != nil {
			return fail(err)
		}
		descriptor := toDescriptor(channel)
		response.Channel = &descriptor

	case OpWrapAppChannel:
		channel, err := s.service.WrapAppChannel(request.OwnerUUID, request.ChannelID)
		if err != nil {
			return fail(err)
		}
		descriptor := toDescriptor(channel)
		response.Channel = &descriptor

	default:
		return fail(fmt.Errorf("unknown operation: %s", request.Op))
	}
	return response
}
