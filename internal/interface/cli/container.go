package cli

import (
	"io"

	"github.com/vkarpenko/faultlog/internal/infrastructure/di"
)

// newContainer wires the application from the loaded configuration.
// The caller owns the container and must Close it.
func newContainer(out io.Writer) (*di.Container, error) {
	return di.NewContainer(di.Config{
		DBPath:         globalConfig.DBPath(),
		AccessFilePath: globalConfig.AccessFilePath(),
		RecentWindow:   globalConfig.RecentWindow(),
		OutputWriter:   out,
	})
}
