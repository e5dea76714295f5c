package main

import (
	"fmt"
	"net/http"
	"time"

	"agentconsole/app/handler"
	"agentconsole/app/router"
	"agentconsole/pkg/agentapi"
	"agentconsole/pkg/config"
	"agentconsole/pkg/i18n"
	"agentconsole/pkg/logger"
	"agentconsole/pkg/notification"
	"agentconsole/pkg/store/memory"
	redisstore "agentconsole/pkg/store/redis"

	"github.com/gin-gonic/gin"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.InfoCtx(app.ctx, "Logging system has been closed")
		logger.Sync()
	})
	return nil
}

// initI18n loads the message catalogs
func (app *Application) initI18n() error {
	bundle, err := i18n.NewBundle(app.config.Form.DefaultLanguage)
	if err != nil {
		return err
	}
	app.bundle = bundle
	logger.InfoCtx(app.ctx, "Loaded languages: %v (default: %s)", bundle.Languages(), app.config.Form.DefaultLanguage)
	return nil
}

// initPageStore initializes the form page store
func (app *Application) initPageStore() error {
	ttl := app.config.Form.SessionTTL

	switch app.config.Form.SessionStore {
	case "redis":
		client, err := redisstore.NewRedisClient(app.ctx, app.config.Redis)
		if err != nil {
			return err
		}
		app.redisClient = client
		app.registerCleanup(func() {
			client.Close()
			logger.InfoCtx(app.ctx, "Redis connection has been closed")
		})
		app.pageStore = redisstore.NewPageStore(client, ttl)
	case "", "memory":
		app.pageStore = memory.NewPageStore(ttl)
	default:
		return fmt.Errorf("unknown session store %q", app.config.Form.SessionStore)
	}

	logger.InfoCtx(app.ctx, "Page store: %s, ttl: %v", app.config.Form.SessionStore, ttl)
	return nil
}

// initAgentClient initializes the agent service client
func (app *Application) initAgentClient() error {
	app.agentClient = agentapi.NewClient(app.config.AgentService)
	logger.InfoCtx(app.ctx, "Agent service: %s", app.agentClient.BaseURL())
	return nil
}

// initNotifier initializes notification surfaces
func (app *Application) initNotifier() error {
	notifiers := notification.Multi{notification.LogNotifier{}}

	feishu := notification.NewFeishuNotifier(app.config.Notification.FeishuWebhookURL)
	if feishu.Enabled() {
		notifiers = append(notifiers, feishu)
		app.registerCleanup(func() {
			feishu.Wait()
			logger.InfoCtx(app.ctx, "Feishu notifications flushed")
		})
	}

	app.notifier = notifiers
	return nil
}

// initHandlers initializes handler layer
func (app *Application) initHandlers() error {
	app.agentFormHandler = handler.NewAgentFormHandler(
		app.pageStore,
		app.agentClient,
		app.agentClient,
		app.notifier,
		app.bundle,
		app.config.Form.MaxConfigFileSize,
	)
	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	r := router.NewRouter(app.agentFormHandler, app.config.Server.APIKey)

	// Set Gin mode
	gin.SetMode(app.config.Server.Mode)

	// Create Gin engine
	app.ginEngine = gin.New()
	app.ginEngine.MaxMultipartMemory = app.config.Form.MaxConfigFileSize

	// Setup routes
	r.Setup(app.ginEngine)

	// Create HTTP server
	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}
