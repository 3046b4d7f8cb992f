package ops

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/dvirzg/Forge/internal/errors"
	"github.com/dvirzg/Forge/internal/fsutil"
	"github.com/dvirzg/Forge/internal/imageops"
	"github.com/dvirzg/Forge/internal/meta"
	"github.com/dvirzg/Forge/internal/pdfops"
	"github.com/dvirzg/Forge/internal/quality"
	"github.com/dvirzg/Forge/internal/textops"
	"github.com/dvirzg/Forge/internal/toolexec"
	"github.com/dvirzg/Forge/internal/videoops"
)

// Services bundles everything the operation handlers call into.
type Services struct {
	Images  *imageops.Service
	PDFs    *pdfops.Service
	Videos  *videoops.Service
	Texts   *textops.Service
	Hub     *meta.Hub
	Runners []toolexec.Invoker
}

// RegisterAll registers every operation on reg.
func RegisterAll(reg *Registry, svc Services) {
	registerImageOps(reg, svc)
	registerPDFOps(reg, svc)
	registerVideoOps(reg, svc)
	registerTextOps(reg, svc)
	registerSystemOps(reg, svc)
}

// Schema shorthands.

func obj(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func integer(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

func strArray(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: desc, Items: &jsonschema.Schema{Type: "string"}}
}

// outputParam resolves the explicit "output" parameter or derives a path
// from the input by inserting suffix. A non-empty ext replaces the input's
// extension.
func outputParam(params map[string]any, input, suffix, ext string) (string, error) {
	out, err := optStrParam(params, "output", "")
	if err != nil {
		return "", err
	}

	if out != "" {
		return out, nil
	}

	return fsutil.OutputPath(input, suffix, ext), nil
}

func levelParam(params map[string]any) (quality.Level, error) {
	n, err := optIntParam(params, "level", int(quality.DefaultLevel))
	if err != nil {
		return quality.DefaultLevel, err
	}

	return quality.FromInt(n), nil
}

func fileResult(output string) map[string]any {
	return map[string]any{"output": output}
}

// compressResult is fileResult plus the expected output/input size ratio,
// which the GUI shows before the user commits to a level.
func compressResult(output string, level quality.Level) map[string]any {
	return map[string]any{
		"output":          output,
		"level":           level.String(),
		"estimated_ratio": level.SizeFactor(),
	}
}

// publish records a metadata payload on the hub and wraps it for the wire.
func publish(hub *meta.Hub, kind, source string, payload map[string]any) map[string]any {
	snap := hub.Publish(kind, source, payload)

	return map[string]any{
		"id":       snap.ID,
		"metadata": payload,
	}
}

func registerImageOps(reg *Registry, svc Services) {
	reg.Register(&Operation{
		Name:        "image.rotate",
		Description: "Rotate an image clockwise by 90, 180 or 270 degrees.",
		Schema: obj([]string{"input", "degrees"}, map[string]*jsonschema.Schema{
			"input":   str("Path to the source image."),
			"output":  str("Destination path. Derived from the input when omitted."),
			"degrees": integer("Clockwise rotation: 90, 180 or 270."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			degrees, err := intParam(params, "degrees")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "rotated", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Images.Rotate(input, output, degrees); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.flip",
		Description: "Mirror an image horizontally or vertically.",
		Schema: obj([]string{"input", "direction"}, map[string]*jsonschema.Schema{
			"input":     str("Path to the source image."),
			"output":    str("Destination path. Derived from the input when omitted."),
			"direction": str("Either \"horizontal\" or \"vertical\"."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			direction, err := strParam(params, "direction")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "flipped", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Images.Flip(input, output, direction); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.crop",
		Description: "Crop a rectangular region out of an image.",
		Schema: obj([]string{"input", "x", "y", "width", "height"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source image."),
			"output": str("Destination path. Derived from the input when omitted."),
			"x":      integer("Left edge of the crop region, in pixels."),
			"y":      integer("Top edge of the crop region, in pixels."),
			"width":  integer("Width of the crop region, in pixels."),
			"height": integer("Height of the crop region, in pixels."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			rect, err := rectParams(params)
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "cropped", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Images.Crop(input, output, rect.x, rect.y, rect.w, rect.h); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.convert",
		Description: "Convert an image to another format (png, jpg, gif, bmp, tiff).",
		Schema: obj([]string{"input", "format"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source image."),
			"output": str("Destination path. Derived from the input when omitted."),
			"format": str("Target format: png, jpg, jpeg, gif, bmp, tif or tiff."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			format, err := strParam(params, "format")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "converted", strings.ToLower(format))
			if err != nil {
				return nil, err
			}

			if err := svc.Images.Convert(input, output, format); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.compress",
		Description: "Re-encode an image at a reduced quality level.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source image."),
			"output": str("Destination path. Derived from the input when omitted."),
			"level":  integer("Compression level 0 (lossless) to 4 (smallest)."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			level, err := levelParam(params)
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "compressed", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Images.Compress(input, output, level); err != nil {
				return nil, err
			}

			return compressResult(output, level), nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.strip_metadata",
		Description: "Re-encode an image without its embedded metadata.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source image."),
			"output": str("Destination path. Derived from the input when omitted."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "stripped", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Images.StripMetadata(input, output); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.preview",
		Description: "Apply a transform in memory and return the result as PNG, without writing a file.",
		Schema: obj([]string{"input", "transform"}, map[string]*jsonschema.Schema{
			"input":     str("Path to the source image."),
			"transform": str("One of rotate, flip or crop."),
			"degrees":   integer("Rotation degrees, for transform=rotate."),
			"direction": str("Flip direction, for transform=flip."),
			"x":         integer("Crop left edge, for transform=crop."),
			"y":         integer("Crop top edge, for transform=crop."),
			"width":     integer("Crop width, for transform=crop."),
			"height":    integer("Crop height, for transform=crop."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			transform, err := strParam(params, "transform")
			if err != nil {
				return nil, err
			}

			var png []byte

			switch transform {
			case "rotate":
				degrees, err := intParam(params, "degrees")
				if err != nil {
					return nil, err
				}

				png, err = svc.Images.RotatePreview(input, degrees)
				if err != nil {
					return nil, err
				}
			case "flip":
				direction, err := strParam(params, "direction")
				if err != nil {
					return nil, err
				}

				png, err = svc.Images.FlipPreview(input, direction)
				if err != nil {
					return nil, err
				}
			case "crop":
				rect, err := rectParams(params)
				if err != nil {
					return nil, err
				}

				png, err = svc.Images.CropPreview(input, rect.x, rect.y, rect.w, rect.h)
				if err != nil {
					return nil, err
				}
			default:
				return nil, &errors.UnsupportedParamError{
					Param:   "transform",
					Value:   transform,
					Allowed: []string{"rotate", "flip", "crop"},
				}
			}

			return map[string]any{
				"preview_png": base64.StdEncoding.EncodeToString(png),
			}, nil
		},
	})

	reg.Register(&Operation{
		Name:        "image.metadata",
		Description: "Read image dimensions, format and file details.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input": str("Path to the image."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			payload, err := svc.Images.Metadata(input)
			if err != nil {
				return nil, err
			}

			return publish(svc.Hub, "image", input, payload), nil
		},
	})
}

type rect struct{ x, y, w, h int }

func rectParams(params map[string]any) (rect, error) {
	var r rect
	var err error

	if r.x, err = intParam(params, "x"); err != nil {
		return r, err
	}

	if r.y, err = intParam(params, "y"); err != nil {
		return r, err
	}

	if r.w, err = intParam(params, "width"); err != nil {
		return r, err
	}

	if r.h, err = intParam(params, "height"); err != nil {
		return r, err
	}

	return r, nil
}

func registerPDFOps(reg *Registry, svc Services) {
	reg.Register(&Operation{
		Name:        "pdf.merge",
		Description: "Merge multiple PDF documents into one, in order.",
		Schema: obj([]string{"inputs", "output"}, map[string]*jsonschema.Schema{
			"inputs": strArray("Paths of the documents to merge, in page order."),
			"output": str("Path of the merged document."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			inputs, err := strSliceParam(params, "inputs")
			if err != nil {
				return nil, err
			}

			output, err := strParam(params, "output")
			if err != nil {
				return nil, err
			}

			if err := svc.PDFs.Merge(inputs, output); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "pdf.rotate",
		Description: "Rotate PDF pages by a multiple of 90 degrees.",
		Schema: obj([]string{"input", "degrees"}, map[string]*jsonschema.Schema{
			"input":   str("Path to the source document."),
			"output":  str("Destination path. Derived from the input when omitted."),
			"degrees": integer("Rotation in degrees, any multiple of 90."),
			"pages":   strArray("Page selection (\"3\", \"2-5\", \"even\"). All pages when omitted."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			degrees, err := intParam(params, "degrees")
			if err != nil {
				return nil, err
			}

			pages, err := strSliceParam(params, "pages")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "rotated", "pdf")
			if err != nil {
				return nil, err
			}

			if err := svc.PDFs.Rotate(input, output, degrees, pages); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "pdf.extract_text",
		Description: "Extract the text of every page.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input": str("Path to the document."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			text, err := svc.PDFs.ExtractText(input)
			if err != nil {
				return nil, err
			}

			return map[string]any{"text": text}, nil
		},
	})

	reg.Register(&Operation{
		Name:        "pdf.extract_images",
		Description: "Extract embedded images into a directory, optionally packing them into a tar.gz archive.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":   str("Path to the document."),
			"out_dir": str("Directory for the extracted images. Defaults to <input>_images next to the document."),
			"archive": str("Optional path for a tar.gz archive of the extracted files."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			defaultDir := strings.TrimSuffix(input, filepath.Ext(input)) + "_images"

			outDir, err := optStrParam(params, "out_dir", defaultDir)
			if err != nil {
				return nil, err
			}

			archive, err := optStrParam(params, "archive", "")
			if err != nil {
				return nil, err
			}

			files, err := svc.PDFs.ExtractImages(input, outDir, archive)
			if err != nil {
				return nil, err
			}

			result := map[string]any{
				"files": files,
				"count": len(files),
			}

			if archive != "" {
				result["archive"] = archive
			}

			return result, nil
		},
	})

	reg.Register(&Operation{
		Name:        "pdf.compress",
		Description: "Compress a PDF through Ghostscript at a quality level.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source document."),
			"output": str("Destination path. Derived from the input when omitted."),
			"level":  integer("Compression level 0 (lossless) to 4 (smallest)."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			level, err := levelParam(params)
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "compressed", "pdf")
			if err != nil {
				return nil, err
			}

			if err := svc.PDFs.Compress(ctx, input, output, level); err != nil {
				return nil, err
			}

			return compressResult(output, level), nil
		},
	})

	reg.Register(&Operation{
		Name:        "pdf.metadata",
		Description: "Read page count, title and file details.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input": str("Path to the document."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			payload, err := svc.PDFs.Metadata(input)
			if err != nil {
				return nil, err
			}

			return publish(svc.Hub, "pdf", input, payload), nil
		},
	})
}

func registerVideoOps(reg *Registry, svc Services) {
	reg.Register(&Operation{
		Name:        "video.trim",
		Description: "Cut a segment out of a video without re-encoding.",
		Schema: obj([]string{"input", "start_time", "end_time"}, map[string]*jsonschema.Schema{
			"input":      str("Path to the source video."),
			"output":     str("Destination path. Derived from the input when omitted."),
			"start_time": str("Segment start as HH:MM:SS."),
			"end_time":   str("Segment end as HH:MM:SS."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			start, err := strParam(params, "start_time")
			if err != nil {
				return nil, err
			}

			end, err := strParam(params, "end_time")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "trimmed", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Videos.Trim(ctx, input, output, start, end); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "video.strip_audio",
		Description: "Remove all audio streams without re-encoding video.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source video."),
			"output": str("Destination path. Derived from the input when omitted."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "muted", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Videos.StripAudio(ctx, input, output); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "video.scale",
		Description: "Resize a video to the given dimensions.",
		Schema: obj([]string{"input", "width", "height"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source video."),
			"output": str("Destination path. Derived from the input when omitted."),
			"width":  integer("Target width in pixels."),
			"height": integer("Target height in pixels."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			width, err := intParam(params, "width")
			if err != nil {
				return nil, err
			}

			height, err := intParam(params, "height")
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "scaled", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Videos.Scale(ctx, input, output, width, height); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "video.compress",
		Description: "Re-encode a video with libx264 at a quality level.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source video."),
			"output": str("Destination path. Derived from the input when omitted."),
			"level":  integer("Compression level 0 (lossless) to 4 (smallest)."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			level, err := levelParam(params)
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "compressed", "")
			if err != nil {
				return nil, err
			}

			if err := svc.Videos.Compress(ctx, input, output, level); err != nil {
				return nil, err
			}

			return compressResult(output, level), nil
		},
	})

	reg.Register(&Operation{
		Name:        "video.to_gif",
		Description: "Convert a video to an animated GIF.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input":  str("Path to the source video."),
			"output": str("Destination path. Derived from the input when omitted."),
			"fps":    integer("Frame rate of the GIF. Defaults to 10."),
			"width":  integer("Width of the GIF in pixels, height scales to match. Defaults to 480."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			fps, err := optIntParam(params, "fps", 0)
			if err != nil {
				return nil, err
			}

			width, err := optIntParam(params, "width", 0)
			if err != nil {
				return nil, err
			}

			output, err := outputParam(params, input, "animated", "gif")
			if err != nil {
				return nil, err
			}

			if err := svc.Videos.ToGIF(ctx, input, output, fps, width); err != nil {
				return nil, err
			}

			return fileResult(output), nil
		},
	})

	reg.Register(&Operation{
		Name:        "video.metadata",
		Description: "Probe duration, dimensions, codec, bitrate and file details.",
		Schema: obj([]string{"input"}, map[string]*jsonschema.Schema{
			"input": str("Path to the video."),
		}),
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			input, err := strParam(params, "input")
			if err != nil {
				return nil, err
			}

			payload, err := svc.Videos.Metadata(ctx, input)
			if err != nil {
				return nil, err
			}

			return publish(svc.Hub, "video", input, payload), nil
		},
	})
}

func registerTextOps(reg *Registry, svc Services) {
	reg.Register(&Operation{
		Name:        "text.convert_case",
		Description: "Rewrite text into another case style.",
		Schema: obj([]string{"text", "case"}, map[string]*jsonschema.Schema{
			"text": str("Text to convert."),
			"case": str("Target style: upper, lower, title, sentence, camel, pascal, snake, kebab or screaming_snake."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			text, err := strParam(params, "text")
			if err != nil {
				return nil, err
			}

			style, err := strParam(params, "case")
			if err != nil {
				return nil, err
			}

			converted, err := svc.Texts.ConvertCase(text, style)
			if err != nil {
				return nil, err
			}

			return map[string]any{"text": converted}, nil
		},
	})

	reg.Register(&Operation{
		Name:        "text.replace_all",
		Description: "Replace every occurrence of a substring.",
		Schema: obj([]string{"text", "find", "replace"}, map[string]*jsonschema.Schema{
			"text":    str("Text to edit."),
			"find":    str("Substring to search for. Must be non-empty."),
			"replace": str("Replacement text."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			text, err := strParam(params, "text")
			if err != nil {
				return nil, err
			}

			find, err := strParam(params, "find")
			if err != nil {
				return nil, err
			}

			replace, err := optStrParam(params, "replace", "")
			if err != nil {
				return nil, err
			}

			replaced, err := svc.Texts.ReplaceAll(text, find, replace)
			if err != nil {
				return nil, err
			}

			return map[string]any{"text": replaced}, nil
		},
	})

	reg.Register(&Operation{
		Name:        "text.metadata",
		Description: "Count bytes, runes, words and lines.",
		Schema: obj([]string{"text"}, map[string]*jsonschema.Schema{
			"text": str("Text to measure."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			text, err := strParam(params, "text")
			if err != nil {
				return nil, err
			}

			return publish(svc.Hub, "text", "", svc.Texts.Metadata(text)), nil
		},
	})
}

func registerSystemOps(reg *Registry, svc Services) {
	reg.Register(&Operation{
		Name:        "tools.check",
		Description: "Check which external tools are installed and runnable.",
		Schema:      obj(nil, map[string]*jsonschema.Schema{}),
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			available := toolexec.Probe(ctx, svc.Runners...)

			result := make(map[string]any, len(available))
			for tool, ok := range available {
				result[string(tool)] = ok
			}

			return result, nil
		},
	})

	reg.Register(&Operation{
		Name:        "meta.latest",
		Description: "Return the most recently computed metadata snapshot.",
		Schema:      obj(nil, map[string]*jsonschema.Schema{}),
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			snap, ok := svc.Hub.Latest()
			if !ok {
				return map[string]any{"snapshot": nil}, nil
			}

			return map[string]any{"snapshot": snap}, nil
		},
	})

	reg.Register(&Operation{
		Name:        "meta.get",
		Description: "Return a metadata snapshot by its id.",
		Schema: obj([]string{"id"}, map[string]*jsonschema.Schema{
			"id": str("Snapshot id from a previous metadata result."),
		}),
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			id, err := strParam(params, "id")
			if err != nil {
				return nil, err
			}

			snap, ok := svc.Hub.Get(id)
			if !ok {
				return nil, &errors.ParamError{Param: "id", Reason: "does not match a retained snapshot"}
			}

			return map[string]any{"snapshot": snap}, nil
		},
	})
}
