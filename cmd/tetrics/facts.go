package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	tetricscore "github.com/vovakirdan/tui-tetrics/internal/games/tetrics/core"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Show the cloud service behind each Cloud Tetrics piece",
	Long: `Lists every piece of Cloud Tetrics with the service it stands for and
the fact shown when a game ends on it.`,
	Args: cobra.NoArgs,
	Run:  runFacts,
}

func runFacts(_ *cobra.Command, _ []string) {
	cat := tetricscore.CloudCatalog()
	for _, pt := range cat.Types() {
		f := cat.Fact(pt)
		if f == nil {
			continue
		}
		fmt.Printf("%s  %s (%s piece)\n", f.Icon, f.Service, pt)
		fmt.Printf("    %s, since %d\n", f.Category, f.LaunchYear)
		for _, line := range strings.Split(ansi.Wrap(f.Text, 72, ""), "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}
}
