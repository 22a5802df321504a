package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

var defaultRoutes = map[string]string{
	"WETH":  "ETH",
	"ETH":   "ETH",
	"SOL":   "SOL",
	"BTC":   "BTC",
	"EIGEN": "EIGEN",
	"ENA":   "ENA",
}

// SymbolRouter токен -> символ рынка на бирже.
type SymbolRouter struct {
	routes map[string]string
}

func NewSymbolRouter(overrides map[string]string) *SymbolRouter {
	routes := make(map[string]string, len(defaultRoutes)+len(overrides))
	for k, v := range defaultRoutes {
		routes[k] = v
	}
	for k, v := range overrides {
		k, v = normalize(k), normalize(v)
		if k != "" && v != "" {
			routes[k] = v
		}
	}
	return &SymbolRouter{routes: routes}
}

// Resolve без учета регистра; неизвестный токен возвращается как есть в верхнем регистре.
func (r *SymbolRouter) Resolve(token string) string {
	t := normalize(token)
	if routed, ok := r.routes[t]; ok {
		return routed
	}
	return t
}

func normalize(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

type routingFile struct {
	Routes map[string]string `yaml:"routes"`
}

// LoadRoutingFile читает дополнительные маршруты из yaml вида
//
//	routes:
//	  WBTC: BTC
func LoadRoutingFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing file: %w", err)
	}
	var f routingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode routing file %s: %w", path, err)
	}
	return f.Routes, nil
}
