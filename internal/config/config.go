// Package config resolves runtime configuration from the environment
// and the data directory. Precedence: process environment, then a .env
// file in the working directory, then defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSalesAPIURL is the remote sale acceptance endpoint.
	DefaultSalesAPIURL = "http://localhost:3000/api/sales"
	// DefaultProductsAPIURL is the remote product catalog endpoint.
	DefaultProductsAPIURL = "http://localhost:3000/api/products"

	envSalesAPIURL    = "SIKA_SALES_API_URL"
	envProductsAPIURL = "SIKA_PRODUCTS_API_URL"
	envDataDir        = "SIKA_DATA_DIR"

	shopFileName = "shop.yaml"
)

// ShopInfo is the shop identity printed on receipts. It is explicit
// configuration injected into the receipt renderer, never read from
// ambient global state.
type ShopInfo struct {
	ShopName    string `yaml:"shopName" json:"shopName"`
	Address     string `yaml:"address" json:"address"`
	PhoneNumber string `yaml:"phoneNumber" json:"phoneNumber"`
}

// Config is the resolved runtime configuration.
type Config struct {
	SalesAPIURL    string
	ProductsAPIURL string
	// DataDir holds the persistent slot file and shop.yaml.
	DataDir string
	Shop    ShopInfo
}

// Load resolves configuration. A .env file is honored when present and
// silently skipped when absent. The data directory defaults to
// sikapos under the user config dir; shop.yaml inside it overrides the
// default shop identity.
func Load() (Config, error) {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		SalesAPIURL:    envOr(envSalesAPIURL, DefaultSalesAPIURL),
		ProductsAPIURL: envOr(envProductsAPIURL, DefaultProductsAPIURL),
		Shop: ShopInfo{
			ShopName:    "Sika POS",
			Address:     "",
			PhoneNumber: "",
		},
	}

	cfg.DataDir = os.Getenv(envDataDir)
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, "sikapos")
	}

	shop, err := loadShopInfo(filepath.Join(cfg.DataDir, shopFileName))
	if err != nil {
		return Config{}, err
	}
	if shop != nil {
		cfg.Shop = *shop
	}

	return cfg, nil
}

// loadShopInfo reads shop.yaml. Returns (nil, nil) when the file does
// not exist.
func loadShopInfo(path string) (*ShopInfo, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shop info: %w", err)
	}

	var shop ShopInfo
	if err := yaml.Unmarshal(data, &shop); err != nil {
		return nil, fmt.Errorf("parse %s: %w", shopFileName, err)
	}
	return &shop, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
