package writers

import (
	"github.com/TFMV/partskeeper/internal/registry"
	"github.com/TFMV/partskeeper/pkg/core"
)

// Creator builds a writer from a configuration.
type Creator = registry.Constructor[Config, DatasetWriter]

// Factory creates writers by Config.Type.
type Factory struct {
	creators *registry.Registry[Config, DatasetWriter]
}

func NewFactory() *Factory {
	return &Factory{creators: registry.New[Config, DatasetWriter]("writer", core.ErrUnsupportedFormat)}
}

func (f *Factory) Register(typ string, creator Creator) {
	f.creators.Register(typ, creator)
}

// Create creates the file named by config.Path and returns its writer.
// Unknown types wrap core.ErrUnsupportedFormat and create nothing.
func (f *Factory) Create(config Config) (DatasetWriter, error) {
	return f.creators.Create(config.Type, config)
}

// Types lists the registered writer types.
func (f *Factory) Types() []string {
	return f.creators.Names()
}

var DefaultFactory = NewFactory()

func init() {
	DefaultFactory.Register("parquet", NewParquetWriter)
	DefaultFactory.Register("arrow", NewArrowWriter)
	DefaultFactory.Register("jsonl", NewJSONWriter)
	DefaultFactory.Register("csv", NewCSVWriter)
	DefaultFactory.Register("xlsx", NewXLSXWriter)
}
