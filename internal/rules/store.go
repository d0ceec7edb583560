// Package rules loads per-client rule schemas and validates emails against them.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/model"
)

// ErrNoRules is matched by errors.Is when a client has no rules file
var ErrNoRules = errors.New("no rules configured")

// ErrMalformedRules is wrapped around invalid rule documents
var ErrMalformedRules = errors.New("malformed rules")

// NoRulesError reports the client and path that were looked up
type NoRulesError struct {
	Client string
	Path   string
}

func (e *NoRulesError) Error() string {
	return fmt.Sprintf("no rules file found for client '%s'", e.Client)
}

// Is makes errors.Is(err, ErrNoRules) true
func (e *NoRulesError) Is(target error) bool {
	return target == ErrNoRules
}

// clientKeyReplacer maps spaces, dashes and path separators to underscores,
// so a key always names a file directly inside the rules directory
var clientKeyReplacer = strings.NewReplacer(" ", "_", "-", "_", "/", "_", `\`, "_")

// ClientKey normalizes a client name into its file and cache key
func ClientKey(name string) string {
	return clientKeyReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// Decode parses a rule document. Invalid JSON and a missing clientName are
// both reported as ErrMalformedRules.
func Decode(data []byte) (*model.RuleSchema, error) {
	var schema model.RuleSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRules, err)
	}
	if strings.TrimSpace(schema.ClientName) == "" {
		return nil, fmt.Errorf("%w: missing required key 'clientName'", ErrMalformedRules)
	}
	return &schema, nil
}

// Store reads rule schemas from a directory of <client_key>.json files and
// keeps them in memory. Cached schemas are replaced whole and never modified.
type Store struct {
	dir    string
	cache  *gocache.Cache
	logger zerolog.Logger
}

// NewStore creates a store over dir. A zero ttl keeps entries until Reload.
func NewStore(dir string, ttl time.Duration, logger zerolog.Logger) *Store {
	expiration := gocache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 2 * ttl
	}
	return &Store{
		dir:    dir,
		cache:  gocache.New(expiration, cleanup),
		logger: logger.With().Str("component", "rules").Logger(),
	}
}

// Dir returns the rules directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a client's rules are read from
func (s *Store) Path(client string) string {
	return filepath.Join(s.dir, ClientKey(client)+".json")
}

// Load returns the client's schema, reading the file on first use
func (s *Store) Load(client string) (*model.RuleSchema, error) {
	key := ClientKey(client)
	if v, found := s.cache.Get(key); found {
		return v.(*model.RuleSchema), nil
	}
	return s.Reload(client)
}

// Reload reads the client's file again and replaces the cached schema
func (s *Store) Reload(client string) (*model.RuleSchema, error) {
	key := ClientKey(client)
	path := s.Path(client)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cache.Delete(key)
			return nil, &NoRulesError{Client: client, Path: path}
		}
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	schema, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.cache.SetDefault(key, schema)
	s.logger.Debug().Str("client", key).Str("path", path).Msg("loaded rules")
	return schema, nil
}

// Save writes the schema as indented JSON and replaces the cached copy
func (s *Store) Save(schema *model.RuleSchema) error {
	if schema == nil || strings.TrimSpace(schema.ClientName) == "" {
		return fmt.Errorf("%w: missing required key 'clientName'", ErrMalformedRules)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create rules dir: %w", err)
	}

	path := s.Path(schema.ClientName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename rules: %w", err)
	}

	// store a private copy so later edits by the caller are not observed
	stored, err := Decode(data)
	if err != nil {
		return err
	}
	s.cache.SetDefault(ClientKey(schema.ClientName), stored)
	s.logger.Info().Str("client", schema.ClientName).Str("path", path).Msg("saved rules")
	return nil
}

// Clients lists the client keys that have a rules file, sorted
func (s *Store) Clients() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list rules: %w", err)
	}

	clients := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		clients = append(clients, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(clients)
	return clients, nil
}

// DefaultSchema returns a starter rule document for a new client
func DefaultSchema(client string) *model.RuleSchema {
	optional := false
	return &model.RuleSchema{
		ClientName: client,
		Segmentation: map[string]model.SegmentRule{
			"prospects": {RequiredSubjectKeywords: []string{}, RequiredPreviewKeywords: []string{}},
			"owners":    {RequiredSubjectKeywords: []string{}, RequiredPreviewKeywords: []string{}},
		},
		Modules: map[string][]model.ModuleRule{
			model.ScopeAll: {
				{Name: "Header", Keywords: []string{"logo", "header"}},
				{Name: "Footer", Keywords: []string{"unsubscribe", "privacy"}},
				{Name: "Social", Keywords: []string{"facebook", "instagram"}, Required: &optional},
			},
		},
		CTAs: map[string][]string{
			model.ScopeAll: {},
		},
		UTMRequirements: &model.UTMRequirements{
			RequiredParams: []string{"utm_source", "utm_medium", "utm_campaign"},
			ExpectedValues: map[string]string{"utm_source": "email"},
		},
		Brand: &model.BrandRules{
			SocialHandles: map[string]string{},
			CompanyInfo:   map[string]string{},
		},
		DosAndDonts: &model.DosAndDonts{
			Dos:   []model.DoRule{},
			Donts: []model.DontRule{{Phrase: "click here", Reason: "Use descriptive link text", Severity: model.SeverityWarn}},
		},
		Compliance: &model.ComplianceRules{
			RequiredElements: []model.ComplianceElement{
				model.ElementUnsubscribeLink,
				model.ElementPhysicalAddress,
				model.ElementCompanyName,
			},
			CTAStyle: &model.CTAStyle{Case: model.CaseUpper},
		},
	}
}
