package cmd

import (
	"github.com/fatih/color"
)

// BoldBlue renders named flag set titles.
var BoldBlue = color.New(color.FgHiBlue, color.Bold).SprintFunc()
