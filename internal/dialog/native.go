package dialog

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/feedbridge/feedbridge/pkg/domain"
)

// collectNative runs the native OS entry dialog and, when enabled, an attach
// step for inline images.
func collectNative(ctx context.Context, title, prompt string, attach bool, logger *slog.Logger) (domain.Record, error) {
	text, err := zenity.Entry(prompt,
		zenity.Title(title),
		zenity.Context(ctx),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.NewRecord("", true, nil), nil
		}
		return domain.Record{}, err
	}

	var images []domain.Image
	if attach {
		images = collectAttachments(ctx, title, logger)
	}

	return domain.NewRecord(text, false, images), nil
}

// collectAttachments offers an optional file-picker step. Failures here are
// logged and swallowed so the typed answer is never lost to a picker error.
func collectAttachments(ctx context.Context, title string, logger *slog.Logger) []domain.Image {
	err := zenity.Question("Attach images to your answer?",
		zenity.Title(title),
		zenity.Context(ctx),
		zenity.OKLabel("Attach"),
		zenity.CancelLabel("No thanks"),
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			logger.Warn("attach question failed", "err", err)
		}
		return nil
	}

	paths, err := zenity.SelectFileMultiple(
		zenity.Title("Select images"),
		zenity.Context(ctx),
		zenity.FileFilters{
			{Name: "Images", Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp"}},
		},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			logger.Warn("image picker failed", "err", err)
		}
		return nil
	}

	return encodeImages(paths, logger)
}

// encodeImages loads the picked files as base64 inline attachments, skipping
// anything that is not actually an image.
func encodeImages(paths []string, logger *slog.Logger) []domain.Image {
	var images []domain.Image
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read attachment", "path", path, "err", err)
			continue
		}
		mimeType := http.DetectContentType(data)
		if !strings.HasPrefix(mimeType, "image/") {
			logger.Warn("skipping non-image attachment", "path", path, "mime_type", mimeType)
			continue
		}
		images = append(images, domain.Image{
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: mimeType,
		})
	}
	return images
}
