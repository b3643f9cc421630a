// Package ytlikes archives the liked videos of one or more YouTube accounts.
//
// Overview
//
// Every account is a profile registered in input/profiles.json. For each
// profile ytlikes can:
//
//   - import: write the liked videos to input/<profile>.txt
//   - download: fetch the listed videos with yt-dlp into output/<profile>/
//   - validate: rename downloaded files after their info.json sidecar
//   - export: like the videos of the likes file on another account
//   - add: register a video obtained by other means
//
// Quick Start
//
// Import the likes of a profile:
//
//	layout := storage.DefaultLayout()
//	log := logger.Default()
//	provider := &youtube.APIClientProvider{
//		Source: auth.NewManager(layout, log, auth.DefaultCallbackPort, nil),
//	}
//	sync := youtube.NewSynchronizer(provider, layout, log, youtube.DefaultSynchronizerConfig())
//	if _, err := sync.ImportLikes(ctx, "username"); err != nil {
//		log.Error(err.Error())
//	}
//
// Keep file names canonical:
//
//	res, err := library.NewValidator(layout, log).Validate(ctx, "username")
//
// Configuration
//
// The command line reads ytlikes.yaml (or .json/.toml) from the working
// directory or ~/.config/ytlikes, overridden by YTLIKES_* environment
// variables and then by flags:
//
//   - YTLIKES_INPUT_DIR, YTLIKES_OUTPUT_DIR, YTLIKES_SECRETS_DIR
//   - YTLIKES_YTDLP_PATH: path to the yt-dlp executable
//   - YTLIKES_PAGE_DELAY: pause after each playlist page
//   - YTLIKES_RATING_INTERVAL: minimum spacing between likes on export
//   - YTLIKES_CALLBACK_PORT: local port of the OAuth redirect
//
// Error Handling
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytlikes.ErrYtdlpNotInstalled) {
//		fmt.Println("Install yt-dlp first")
//	}
//
// Extracting error details:
//
//	var verr *ytlikes.ValidationError
//	if errors.As(err, &verr) {
//		fmt.Printf("%s has no info.json\n", verr.Stem)
//	}
//
// Dependencies
//
// Downloading requires yt-dlp in PATH or configured with ytdlp_path.
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
package ytlikes
