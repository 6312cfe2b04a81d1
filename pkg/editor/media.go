package editor

import (
	"context"
	"fmt"
	"path"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-sections/pkg/media"
)

const (
	chooseNone   = "No image"
	chooseCancel = "Cancel"
)

// MediaChooser returns a media.Chooser that lists objects through driver.
// "No image" resolves with an empty key; "Cancel" leaves the field alone.
func MediaChooser(driver PromptDriver) media.Chooser {
	return func(ctx context.Context, prefix string, objects []media.Object) (string, bool, error) {
		options := make([]string, 0, len(objects)+2)
		for _, obj := range objects {
			options = append(options, fmt.Sprintf("%s (%s)", path.Base(obj.Key), humanSize(obj.Size)))
		}
		options = append(options, chooseNone, chooseCancel)

		idx, err := driver.Select(ctx, SelectConfig{
			Message:      "Pick from " + prefix,
			Options:      options,
			DefaultIndex: len(options) - 1,
			PageSize:     12,
		})
		if err != nil {
			return "", false, err
		}
		switch {
		case idx >= 0 && idx < len(objects):
			return objects[idx].Key, true, nil
		case idx == len(objects):
			return "", true, nil
		default:
			return "", false, nil
		}
	}
}

func humanSize(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}
