package sql

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/store/sql/model"
)

type Store struct {
	db *gorm.DB
}

var _ store.ReportStore = (*Store)(nil)

// NewStore connects to the database named by storeURL and migrates the
// report tables. The URL scheme selects the driver: sqlite, postgres,
// mysql or sqlserver.
func NewStore(storeURL string) (*Store, error) {
	dialector, err := dialectorFor(storeURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewLoggerAdaptor(logrus.StandardLogger(), LoggerAdaptorConfig{
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", storeURL, err)
	}

	if err := db.AutoMigrate(&model.Report{}, &model.ReportProperty{}); err != nil {
		return nil, fmt.Errorf("failed to migrate report tables: %w", err)
	}

	return &Store{db: db}, nil
}

func dialectorFor(storeURL string) (gorm.Dialector, error) {
	// mysql DSNs ("user@tcp(host:port)/db") do not survive
	// url.Parse, so the scheme is split off by hand.
	scheme, rest, found := strings.Cut(storeURL, "://")
	if !found {
		return nil, fmt.Errorf("invalid store url %q: missing scheme", storeURL)
	}

	switch scheme {
	case "sqlite":
		return gormlite.Open(rest), nil
	case "postgres", "postgresql":
		return postgres.Open(storeURL), nil
	case "mysql":
		// The mysql driver wants a bare DSN without the scheme.
		return mysql.Open(rest), nil
	case "sqlserver":
		return sqlserver.Open(storeURL), nil
	default:
		return nil, fmt.Errorf("unsupported store url scheme %q", scheme)
	}
}
