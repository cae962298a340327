package readers

import (
	"github.com/TFMV/partskeeper/internal/registry"
	"github.com/TFMV/partskeeper/pkg/core"
)

// Creator builds a reader from a configuration.
type Creator = registry.Constructor[Config, DatasetReader]

// Factory creates readers by Config.Type. Unknown types wrap
// core.ErrUnsupportedFormat.
type Factory struct {
	creators *registry.Registry[Config, DatasetReader]
}

func NewFactory() *Factory {
	return &Factory{creators: registry.New[Config, DatasetReader]("reader", core.ErrUnsupportedFormat)}
}

// Register adds or replaces the creator for typ.
func (f *Factory) Register(typ string, creator Creator) {
	f.creators.Register(typ, creator)
}

// Create opens a reader for config.
func (f *Factory) Create(config Config) (DatasetReader, error) {
	return f.creators.Create(config.Type, config)
}

// Types lists the registered reader types.
func (f *Factory) Types() []string {
	return f.creators.Names()
}

// DefaultFactory holds the streaming formats. JSON lines have no schema to
// stream against and are decoded by Load directly.
var DefaultFactory = NewFactory()

func init() {
	DefaultFactory.Register(FormatParquet, NewParquetReader)
	DefaultFactory.Register(FormatArrow, NewArrowReader)
	DefaultFactory.Register(FormatCSV, NewCSVReader)
	DefaultFactory.Register(FormatXLSX, NewXLSXReader)
}
