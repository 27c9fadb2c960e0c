package deps

import (
	"context"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/archive"
	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/browser/bridge"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/router"
)

// NameLister enumerates every stored custom tab name. The popup needs the
// full map to label its tab list in one request.
type NameLister interface {
	All(ctx context.Context) (map[string]string, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Router   *router.Router    // event router, owns the active-tab index
	Archiver *archive.Executor // archival executor (hoard all, export)
	Settings browser.Settings  // durable timer-minutes store
	Names    browser.Names     // custom tab name store
	AllNames NameLister        // full tabID -> name map for the popup
	Bridge   *bridge.Hub       // WebSocket hub the browser shim attaches to

	ExportDir      string   // directory CSV export files are written to
	AllowedOrigins []string // origins allowed to call the API (popup origin)
}
