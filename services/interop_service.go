package services

import (
	"github.com/go-playground/validator/v10"

	"interop-lab/contract"
	"interop-lab/domain"
	"interop-lab/domain/event"
	"interop-lab/observability"
	"interop-lab/runtime"
)

// IInteropService is the operation surface transports talk to.
// It maps one-to-one onto the window-facing RPC table.
type IInteropService interface {
	Connect(windowID domain.WindowID, sink contract.EventSink)
	Disconnect(windowID domain.WindowID)
	Broadcast(windowID domain.WindowID, channelID string, context domain.Context) error
	BroadcastCurrent(windowID domain.WindowID, context domain.Context) error
	GetCurrentContext(channelID string) (*domain.Context, error)
	Join(windowID domain.WindowID, channelID string) error
	Leave(windowID domain.WindowID) error
	AddEventListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) error
	RemoveEventListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) error
	GetDesktopChannels() []domain.Channel
	DefaultChannel() domain.Channel
	CreateAppChannel() (domain.Channel, error)
	WrapAppChannel(ownerUUID, channelID string) (domain.Channel, error)
	Stats() observability.EngineStats
}

// InteropService fronts the engine. The only logic it adds is boundary
// validation of incoming contexts: the engine itself never interprets them.
type InteropService struct {
	engine   *runtime.Engine
	validate *validator.Validate
}

func NewInteropService(engine *runtime.Engine) *InteropService {
	return &InteropService{
		engine:   engine,
		validate: validator.New(),
	}
}

func (s *InteropService) Connect(windowID domain.WindowID, sink contract.EventSink) {
	s.engine.Connect(windowID, sink)
}

func (s *InteropService) Disconnect(windowID domain.WindowID) {
	s.engine.Disconnect(windowID)
}

// Broadcast publishes a context on an explicit channel.
func (s *InteropService) Broadcast(windowID domain.WindowID, channelID string, context domain.Context) error {
	if err := s.validate.Struct(context); err != nil {
		return err
	}
	return s.engine.Broadcast(windowID, channelID, context)
}

// BroadcastCurrent is the top-level convenience call: publish on whatever
// channel the window currently has joined.
func (s *InteropService) BroadcastCurrent(windowID domain.WindowID, context domain.Context) error {
	channel, err := s.engine.JoinedChannel(windowID)
	if err != nil {
		return err
	}
	return s.Broadcast(windowID, channel.ID, context)
}

func (s *InteropService) GetCurrentContext(channelID string) (*domain.Context, error) {
	return s.engine.GetCurrentContext(channelID)
}

func (s *InteropService) Join(windowID domain.WindowID, channelID string) error {
	return s.engine.Join(windowID, channelID)
}

func (s *InteropService) Leave(windowID domain.WindowID) error {
	return s.engine.Leave(windowID)
}

func (s *InteropService) AddEventListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) error {
	return s.engine.AddListener(channelID, windowID, eventType, handle)
}

func (s *InteropService) RemoveEventListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) error {
	return s.engine.RemoveListener(channelID, windowID, eventType, handle)
}

func (s *InteropService) GetDesktopChannels() []domain.Channel {
	return s.engine.DesktopChannels()
}

func (s *InteropService) DefaultChannel() domain.Channel {
	return domain.DefaultChannel()
}

func (s *InteropService) CreateAppChannel() (domain.Channel, error) {
	return s.engine.CreateAppChannel()
}

func (s *InteropService) WrapAppChannel(ownerUUID, channelID string) (domain.Channel, error) {
	return s.engine.WrapAppChannel(ownerUUID, channelID)
}

func (s *InteropService) Stats() observability.EngineStats {
	return s.engine.Stats()
}
