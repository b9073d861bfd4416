package cmd

import (
	"log"

	"chordfm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the ChordFM API server",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting ChordFM server...")
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
