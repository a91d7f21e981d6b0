package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/apinprastya/gdrive"
)

func newLsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			var files []gdrive.RemoteFile
			if all {
				files, err = a.catalog.ListAll(cmd.Context())
			} else {
				files, err = a.catalog.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.ID, f.Name, humanize.Bytes(uint64(f.Size))})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "SIZE"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "follow every page instead of only the first")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file-id> [folder]",
		Short: "Download a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			folder := a.cfg.DownloadDir
			if len(args) == 2 {
				folder = args[1]
			}
			res, err := a.transfer.Download(cmd.Context(), args[0], folder)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "File Downloaded: %s\n", res.Path)
			return nil
		},
	}
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			res, err := a.transfer.Upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total time taken: %.2f sec\n", res.TotalTime.Seconds())
			fmt.Fprintln(cmd.OutOrStdout(), res.File.ID)
			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file-id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "File deleted successfully.")
			return nil
		},
	}
}
