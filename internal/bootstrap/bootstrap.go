// Package bootstrap builds the collaborators shared by the service binaries
// from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"seacrew/internal/config"
	"seacrew/internal/extractor"
	"seacrew/internal/extractor/claude"
	"seacrew/internal/extractor/gemini"
	"seacrew/internal/extractor/openai"
	"seacrew/internal/extractor/tesseract"
	"seacrew/internal/handler"
	"seacrew/internal/port"
	"seacrew/internal/repository/memory"
	"seacrew/internal/repository/postgres"
	s3storage "seacrew/internal/storage/s3"
	"seacrew/internal/validator"
	"seacrew/internal/validator/crewdoc"
)

func init() {
	extractor.RegisterProvider("claude", claude.Factory)
	extractor.RegisterProvider("gemini", gemini.Factory)
	extractor.RegisterProvider("openai", openai.Factory)
	extractor.RegisterProvider("tesseract", tesseract.Factory)
}

// Stores holds the repositories of the selected persistence backend.
type Stores struct {
	Crew    port.CrewMemberRepository
	Records port.DocumentRecordRepository
	Scans   port.ScanAttemptRepository
	Pinger  handler.Pinger
	close   func() error
}

// Close releases the backend's connections.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores connects the backend named by cfg.Store.Driver.
func OpenStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Printf("bootstrap.OpenStores: using in-memory store; history is lost on restart")
		return MemoryStores(memory.NewStore()), nil
	case config.StoreDriverPostgres:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return PostgresStores(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// MemoryStores wraps an in-process store.
func MemoryStores(store *memory.Store) *Stores {
	return &Stores{
		Crew:    memory.NewCrewMemberRepo(store),
		Records: memory.NewDocumentRecordRepo(store),
		Scans:   memory.NewScanAttemptRepo(store),
		Pinger:  handler.PingFunc(func(context.Context) error { return store.Ping() }),
	}
}

// PostgresStores wraps an open database handle.
func PostgresStores(db *sqlx.DB) *Stores {
	return &Stores{
		Crew:    postgres.NewCrewMemberRepo(db),
		Records: postgres.NewDocumentRecordRepo(db),
		Scans:   postgres.NewScanAttemptRepo(db),
		Pinger:  db,
		close:   db.Close,
	}
}

// Engine builds the verification engine, loading the nationality rule table
// from disk when one is configured.
func Engine(cfg *config.VerificationConfig) (*validator.Engine, error) {
	return EngineAt(cfg, nil)
}

// EngineAt is Engine with a fixed clock for expiry checks. A nil now uses time.Now.
func EngineAt(cfg *config.VerificationConfig, now func() time.Time) (*validator.Engine, error) {
	opts := validator.DefaultOptions()
	opts.Now = now
	opts.NameThresholds = cfg.Thresholds()
	if cfg.LowScoreThreshold > 0 {
		opts.LowScoreThreshold = cfg.LowScoreThreshold
	}
	if cfg.ExpirySentinelYear > 0 {
		opts.ExpirySentinelYear = cfg.ExpirySentinelYear
	}
	if cfg.RulesFile != "" {
		rules, err := crewdoc.LoadRuleTable(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading rules file: %w", err)
		}
		opts.Rules = rules
	}
	return validator.NewEngine(nil, opts), nil
}

// Extractor builds the configured provider chain.
func Extractor(cfg *config.ExtractorConfig) (port.DocumentExtractor, error) {
	e, err := extractor.NewChain(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}
	return e, nil
}

// ObjectStorage connects to S3. It returns nil storage when no bucket is
// configured, which disables archiving and storage-key scans.
func ObjectStorage(ctx context.Context, cfg *config.S3Config) (port.ObjectStorage, error) {
	if cfg.Bucket == "" {
		log.Printf("bootstrap.ObjectStorage: no bucket configured; scans will not be archived")
		return nil, nil
	}
	store, err := s3storage.NewScanStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return store, nil
}

// ConfigureLogging applies the log settings to the std logger and gin.
func ConfigureLogging(cfg *config.LogConfig) {
	flags := log.LstdFlags | log.LUTC
	if strings.EqualFold(cfg.Format, "plain") {
		flags = 0
	}
	if strings.EqualFold(cfg.Level, "debug") {
		flags |= log.Lshortfile
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(flags)
}
