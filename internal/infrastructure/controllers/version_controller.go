package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

// VersionController handles the "version" subcommand.
type VersionController struct{}

// NewVersionController creates a new VersionController.
func NewVersionController() *VersionController {
	return &VersionController{}
}

// GetBind returns the Cobra command metadata for the version controller.
func (it *VersionController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "version",
		Short: "Print the mobileversion version",
	}
}

// Execute prints the version the root command was built with.
func (it *VersionController) Execute(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "mobileversion %s\n", cmd.Root().Version)
	return err
}
