package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// KingdeeConfig holds the static Kingdee Cloud WebAPI connection values,
// loaded once at process start. The app secret authorizes a registered
// third-party app against one account database.
type KingdeeConfig struct {
	BaseURL   string `validate:"required,url"`
	AcctID    string `validate:"required"`
	Username  string `validate:"required"`
	AppID     string `validate:"required"`
	AppSecret string `validate:"required"`
	// LCID is the Kingdee locale id; 2052 is simplified Chinese,
	// 1033 English.
	LCID int `validate:"required"`
}

var kingdeeValidate = validator.New()

// LoadKingdeeConfig reads KINGDEE_* env values (godotenv has already
// merged .env) and validates them. Missing credentials are a startup
// error, not a sync-time one.
func LoadKingdeeConfig() (KingdeeConfig, error) {
	cfg := KingdeeConfig{
		BaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("KINGDEE_BASE_URL")), "/"),
		AcctID:    strings.TrimSpace(os.Getenv("KINGDEE_ACCT_ID")),
		Username:  strings.TrimSpace(os.Getenv("KINGDEE_USERNAME")),
		AppID:     strings.TrimSpace(os.Getenv("KINGDEE_APP_ID")),
		AppSecret: strings.TrimSpace(os.Getenv("KINGDEE_APP_SECRET")),
		LCID:      2052,
	}
	if v := strings.TrimSpace(os.Getenv("KINGDEE_LCID")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid KINGDEE_LCID %q: %w", v, err)
		}
		cfg.LCID = n
	}
	if err := kingdeeValidate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("kingdee config: %w", err)
	}
	return cfg, nil
}
