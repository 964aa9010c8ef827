package app

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriTwitch/internal/chat"
	"github.com/Rorical/RoriTwitch/internal/config"
	"github.com/Rorical/RoriTwitch/internal/core"
	"github.com/Rorical/RoriTwitch/internal/dispatcher"
	"github.com/Rorical/RoriTwitch/internal/eventbus"
	"github.com/Rorical/RoriTwitch/internal/models"
	"github.com/Rorical/RoriTwitch/internal/twitch"
	"github.com/Rorical/RoriTwitch/ui/components"
)

var errNoToken = errors.New("no token configured for this profile")

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

// NewApplication wires the chat, API client and widgets for the active
// profile of cfg.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("no config")
	}
	profile := cfg.Current()

	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	var (
		chatConn  core.Chat
		executor  core.Executor
		following components.ItemSource[twitch.FollowedChannel] = unavailable[twitch.FollowedChannel]{}
		category  components.ItemSource[twitch.Category]        = unavailable[twitch.Category]{}
	)

	if profile.Token != "" {
		client := twitch.NewClient(profile.Token, profile.ClientID)
		executor = twitch.NewExecutor(client, profile.Channel)
		following = twitch.NewFollowingSource(client, cfg.Frontend.OnlyLiveFollowed)
		category = twitch.NewCategorySource(client)
	}
	if cfg.IsValid() {
		chatConn = chat.NewClient(chat.DefaultServerURL, profile.Username, profile.Token)
	}

	// Initialize chat service (always create, handles invalid config internally)
	chatService := core.NewChatService(cfg, eb, chatConn, executor)

	model := NewAppModel(cfg, disp,
		components.NewFollowingWidget(following, cfg.Frontend.OnlyLiveFollowed, cfg.Frontend.FetchTimeout),
		components.NewCategoryWidget(category, cfg.Frontend.FetchTimeout),
	)
	model.appModel = createInitialAppModel(cfg, chatService)

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.dispatcher.Start()
	app.service.Start()

	slog.Info("starting ui", "profile", app.config.ActiveProfile, "channel", app.config.Current().Channel)

	// Run UI
	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(cfg *config.Config, chatService *core.ChatService) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:    make([]models.Message, 0),
		MaxMessages: cfg.Frontend.MaxMessages,
		Channel:     cfg.Current().Channel,
		ChatReady:   chatService.IsReady(),
		Timestamps:  cfg.Frontend.ShowTimestamps,
	}
}

// unavailable stands in for an item source when the profile has no token.
type unavailable[T any] struct{}

func (unavailable[T]) Fetch(context.Context, string) ([]T, error) {
	return nil, errNoToken
}
