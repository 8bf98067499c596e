package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Browse and manage your video library",
}

var deleteYes bool

func init() {
	videosDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	videosCmd.AddCommand(videosListCmd, videosUploadCmd, videosDeleteCmd, videosWatchCmd)
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your videos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := requireSession(a); err != nil {
			return err
		}

		videos := a.Catalog.Videos()
		if len(videos) == 0 {
			fmt.Println("No videos")
			return nil
		}

		for _, v := range videos {
			status := "processing"
			if v.Processed {
				status = "ready"
			}
			fmt.Printf("%-36s  %-10s  %-20s  %s\n", v.ID, status, v.UploadedAt, v.DisplayTitle)
		}
		return nil
	},
}

var videosUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := requireSession(a); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		if err := a.Catalog.Upload(ctx, args[0], f); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		fmt.Println("Uploaded; the video will appear once processing finishes")
		return nil
	},
}

var videosDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := requireSession(a); err != nil {
			return err
		}

		video, ok := a.Catalog.Get(args[0])
		if !ok {
			fmt.Println("No such video")
			return nil
		}

		if !deleteYes {
			ok, err := confirm(fmt.Sprintf("Delete %q? [y/N] ", video.DisplayTitle))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := a.Catalog.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		fmt.Println("Deleted")
		return nil
	},
}

var videosWatchCmd = &cobra.Command{
	Use:   "watch ID",
	Short: "Stream a video in the configured player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := requireSession(a); err != nil {
			return err
		}

		video, ok := a.Catalog.Get(args[0])
		if !ok {
			fmt.Println("No such video")
			return nil
		}

		return a.Player.Play(ctx, video)
	},
}

func confirm(prompt string) (bool, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
