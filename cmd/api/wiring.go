package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/cache"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/viacep"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"go.uber.org/zap"
)

// buildGateway monta o gateway de GATEWAY_DRIVER. db é nil no driver REST.
func buildGateway(ctx context.Context, cfg *config.Config, zl *zap.Logger) (usecase.FunnelGateway, *sql.DB, error) {
	switch cfg.GatewayDriver {
	case config.DriverPostgres:
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		zl.Info("using postgres gateway")
		return database.NewGateway(db), db, nil

	case config.DriverREST:
		zl.Info("using crm api gateway", zap.String("url", cfg.CRMAPIURL))
		return crmapi.NewClient(cfg.CRMAPIURL, cfg.CRMAPIToken, zl.Named("crmapi")), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown gateway driver %q", cfg.GatewayDriver)
}

// buildAddressLookup coloca o cache Redis na frente do ViaCEP quando REDIS_ADDR existe.
func buildAddressLookup(cfg *config.Config, zl *zap.Logger) (usecase.AddressLookup, func()) {
	lookup := viacep.NewClient(cfg.ViaCEPURL)
	if cfg.RedisAddr == "" {
		return lookup, func() {}
	}

	rdb, err := cache.NewRedisClient(cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err != nil {
		zl.Warn("redis unavailable, address cache disabled", zap.Error(err))
		return lookup, func() {}
	}
	zl.Info("address cache enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.AddressCacheTTL))
	return cache.NewAddressCache(rdb, lookup, cfg.AddressCacheTTL, zl.Named("address-cache")), func() { rdb.Close() }
}

func buildEmailService(cfg *config.Config) queue.EmailService {
	if !cfg.MailEnabled() {
		return nil
	}
	return mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
}

func buildWhatsApp(cfg *config.Config, zl *zap.Logger) queue.MessageService {
	return whatsapp.NewClient(whatsapp.Config{
		AccessToken: cfg.WhatsAppAccessToken,
		PhoneID:     cfg.WhatsAppPhoneID,
		Template:    cfg.WhatsAppTemplate,
	}, zl.Named("whatsapp"))
}
