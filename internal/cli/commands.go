package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// forEachProfile runs fn for the selected profiles in order and stops at the
// first error.
func (a *app) forEachProfile(cmd *cobra.Command, args []string, fn func(ctx context.Context, profile string) error) error {
	ctx := cmd.Context()
	profiles, err := a.profiles(ctx, args)
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		if err := fn(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [profile]",
		Short: "Write the liked videos of each profile to its likes file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer := a.synchronizer()
			return a.forEachProfile(cmd, args, func(ctx context.Context, profile string) error {
				a.log.Infof("Importing likes of %s...", profile)
				res, err := syncer.ImportLikes(ctx, profile)
				if err != nil {
					return err
				}
				a.log.Infof("Saved %d videos to %s", res.Videos, a.layout.LikesFile(profile))
				return nil
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [profile]",
		Short: "Like every video of the likes file on the profile's account",
		Long:  "Like every video listed in the profile's likes file that the account has not liked yet. Consent is asked for every run and the granted credentials are not stored.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer := a.synchronizer()
			return a.forEachProfile(cmd, args, func(ctx context.Context, profile string) error {
				a.log.Infof("Exporting likes of %s...", profile)
				res, err := syncer.ExportLikes(ctx, profile)
				if err != nil {
					return err
				}
				a.log.Infof("Liked %d videos, %d already liked, %d unavailable", res.Rated, res.Skipped, res.Unavailable)
				return nil
			})
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download [profile]",
		Short: "Download the videos of each profile's likes file with yt-dlp",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.downloader()
			err := a.forEachProfile(cmd, args, func(ctx context.Context, profile string) error {
				a.log.Infof("Downloading %s...", profile)
				return d.Download(ctx, profile)
			})
			if err != nil {
				return err
			}
			a.log.Info("Done!")
			return nil
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "validate [profile]",
		Aliases: []string{"check"},
		Short:   "Rename downloaded files to the name derived from their info.json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(cmd, args)
		},
	}
}

func (a *app) validate(cmd *cobra.Command, args []string) error {
	v := a.validator()
	return a.forEachProfile(cmd, args, func(ctx context.Context, profile string) error {
		res, err := v.Validate(ctx, profile)
		if err != nil {
			return err
		}
		if res.Renamed > 0 {
			a.log.Infof("Renamed %d of %d videos of %s", res.Renamed, res.Groups, profile)
		}
		return nil
	})
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [profile]",
		Short: "Import likes and download them, then validate file names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer := a.synchronizer()
			d := a.downloader()
			err := a.forEachProfile(cmd, args, func(ctx context.Context, profile string) error {
				a.log.Infof("Downloading %s...", profile)
				if _, err := syncer.ImportLikes(ctx, profile); err != nil {
					return err
				}
				return d.Download(ctx, profile)
			})
			if err != nil {
				return err
			}
			if err := a.validate(cmd, args); err != nil {
				return err
			}
			a.log.Info("Done!")
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [profile]",
		Short: "Obtain and store OAuth credentials",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.profiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.authManager().Login(cmd.Context(), profiles)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <profile>",
		Short: "Register a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.CreateProfile(cmd.Context(), args[0])
		},
	}
}

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List registered profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			profiles, err := store.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range profiles {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
