package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ytlikes/internal/ui"
	"ytlikes/library"
	"ytlikes/youtube"
)

// Answers of the add form, in field order.
const (
	fieldLink = iota
	fieldChannel
	fieldTitle
	fieldDuration
	fieldResolution
	fieldDate
	fieldVideo
	fieldImage
	fieldDescription
)

func newAddCmd(a *app) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "add <profile> [youtube-link]",
		Short: "Register a video obtained without yt-dlp",
		Long:  "Ask for the details and files of a video obtained by other means, copy the files into the profile's output directory under their canonical name and mark the video as downloaded.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			profiles, err := a.profiles(ctx, args[:1])
			if err != nil {
				return err
			}
			profile := profiles[0]

			var link string
			if len(args) > 1 {
				link = args[1]
			}

			var known *youtube.VideoInfo
			if probe && link != "" {
				if id, err := library.ParseVideoLink(link); err == nil {
					if known, err = a.downloader().Probe(ctx, id); err != nil {
						a.log.Warnf("Cannot fetch video details: %v", err)
					}
				}
			}

			form := ui.NewForm("Add video to "+profile, addFields(link, known))
			answers, err := ui.Run(ctx, form, tea.WithInput(a.env.Stdin), tea.WithOutput(a.env.Stdout))
			if err != nil {
				return err
			}

			video, err := manualVideo(answers)
			if err != nil {
				return err
			}
			base, err := library.AddVideo(a.layout, profile, video)
			if err != nil {
				return err
			}
			a.log.Infof("Added %s", base)
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "Pre-fill the details from yt-dlp when the video is still available")
	return cmd
}

func addFields(link string, known *youtube.VideoInfo) []ui.Field {
	fields := []ui.Field{
		fieldLink: {Label: "Youtube link", Value: link, Validate: func(s string) error {
			_, err := library.ParseVideoLink(s)
			return err
		}},
		fieldChannel:  {Label: "Channel", Validate: library.CheckNotEmpty},
		fieldTitle:    {Label: "Title", Validate: library.CheckNotEmpty},
		fieldDuration: {Label: "Duration", Validate: func(s string) error {
			_, err := library.ParseDuration(s)
			return err
		}},
		fieldResolution: {Label: "Resolution", Validate: func(s string) error {
			_, _, err := library.ParseResolution(s)
			return err
		}},
		fieldDate: {Label: "Date", Validate: func(s string) error {
			_, err := library.ParseDate(s)
			return err
		}},
		fieldVideo:       {Label: "Video file", Validate: library.CheckMediaFile},
		fieldImage:       {Label: "Image file", Validate: library.CheckMediaFile},
		fieldDescription: {Label: "Description file", Validate: library.CheckFile},
	}

	if known != nil {
		fields[fieldChannel].Value = known.Channel
		fields[fieldTitle].Value = known.Title
		fields[fieldDuration].Value = known.DurationString
		fields[fieldResolution].Value = known.Resolution
		if known.Epoch > 0 {
			fields[fieldDate].Value = time.Unix(known.Epoch, 0).UTC().Format(time.DateOnly)
		}
	}
	return fields
}

// manualVideo converts validated form answers.
func manualVideo(answers []string) (library.ManualVideo, error) {
	var v library.ManualVideo
	if len(answers) != fieldDescription+1 {
		return v, fmt.Errorf("expected %d answers, got %d", fieldDescription+1, len(answers))
	}

	var err error
	if v.ID, err = library.ParseVideoLink(answers[fieldLink]); err != nil {
		return v, err
	}
	if v.Duration, err = library.ParseDuration(answers[fieldDuration]); err != nil {
		return v, err
	}
	if v.Width, v.Height, err = library.ParseResolution(answers[fieldResolution]); err != nil {
		return v, err
	}
	if v.Date, err = library.ParseDate(answers[fieldDate]); err != nil {
		return v, err
	}
	v.Channel = answers[fieldChannel]
	v.Title = answers[fieldTitle]
	v.VideoFile = answers[fieldVideo]
	v.ImageFile = answers[fieldImage]
	v.DescriptionFile = answers[fieldDescription]
	return v, nil
}
