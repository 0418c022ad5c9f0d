package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/terraincognita07/habitdiary/internal/config"
)

// Context is handed to every command's Run method.
type Context struct {
	Config config.Config
	Logger *log.Logger
	Out    io.Writer
}
