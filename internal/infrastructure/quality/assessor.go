package quality

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"math"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

const (
	// Analysis runs on a downscaled copy; full-resolution scans add nothing
	// to blur or skew estimates.
	maxAnalysisEdge = 1000

	// Laplacian variance above this maps to a blur score of 100.
	blurVarianceCeiling = 200.0

	blurryBelow    = 50.0
	skewedBeyond   = 5.0
	idealBrightness = 130.0
)

// Assessor scores captured images for blur, skew and brightness. PDF inputs
// carry their own text layer and get a fixed high-quality report instead of a
// pixel analysis.
type Assessor struct {
	logger *slog.Logger
}

func NewAssessor(logger *slog.Logger) *Assessor {
	return &Assessor{logger: logger}
}

func (a *Assessor) Assess(in domain.RunInput) (domain.QualityReport, error) {
	if domain.IsPageDescriptionFormat(in.Format) {
		return digitalDocumentReport(), nil
	}

	img, kind, err := image.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return domain.QualityReport{}, fmt.Errorf("decode %s image: %w", in.Format, err)
	}

	gray := grayscale(downscale(img))

	blur := blurScore(gray)
	skewDeg := skewDegrees(gray)
	skew := skewScore(skewDeg)
	meanLuma := meanLuminance(gray)
	brightness := brightnessScore(meanLuma)

	composite := domain.CompositeQuality(blur, skew, brightness)
	report := domain.QualityReport{
		BlurScore:       blur,
		SkewScore:       skew,
		SkewDegrees:     skewDeg,
		BrightnessScore: brightness,
		Brightness:      meanLuma,
		Composite:       composite,
		Readability:     domain.ReadabilityFor(composite),
		Blurry:          blur < blurryBelow,
		Skewed:          math.Abs(skewDeg) > skewedBeyond,
	}

	a.logger.Debug("image_quality_assessed",
		"document_id", in.DocumentID,
		"decoded_as", kind,
		"blur", blur,
		"skew_degrees", skewDeg,
		"brightness", meanLuma,
		"composite", composite)
	return report, nil
}

// digitalDocumentReport is the fixed report for page-description formats. The
// scores sit comfortably above the gate without claiming a perfect scan.
func digitalDocumentReport() domain.QualityReport {
	composite := domain.CompositeQuality(95, 100, 95)
	return domain.QualityReport{
		BlurScore:       95,
		SkewScore:       100,
		BrightnessScore: 95,
		Brightness:      idealBrightness,
		Composite:       composite,
		Readability:     domain.ReadabilityFor(composite),
	}
}

func downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxAnalysisEdge {
		return img
	}
	scale := float64(maxAnalysisEdge) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

// blurScore normalizes the variance of the Laplacian response. Sharp text
// produces strong second derivatives at glyph edges; a defocused capture
// flattens them.
func blurScore(gray *image.Gray) float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			center := float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			lap := 4*center -
				float64(gray.GrayAt(b.Min.X+x-1, b.Min.Y+y).Y) -
				float64(gray.GrayAt(b.Min.X+x+1, b.Min.Y+y).Y) -
				float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y-1).Y) -
				float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y+1).Y)
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	score := variance / blurVarianceCeiling * 100
	return math.Min(score, 100)
}

// skewDegrees estimates document rotation from the dominant gradient
// orientation. Text lines produce strong vertical gradients; their angular
// drift from the axes is the page skew.
func skewDegrees(gray *image.Gray) float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	// Histogram of gradient angles folded into [-45, 45), half-degree bins.
	const bins = 180
	hist := make([]float64, bins)

	at := func(x, y int) float64 {
		return float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			mag := math.Hypot(gx, gy)
			if mag < 64 {
				continue
			}
			angle := math.Atan2(gy, gx) * 180 / math.Pi
			for angle >= 45 {
				angle -= 90
			}
			for angle < -45 {
				angle += 90
			}
			bin := int((angle + 45) * 2)
			if bin < 0 {
				bin = 0
			}
			if bin >= bins {
				bin = bins - 1
			}
			hist[bin] += mag
		}
	}

	best, bestWeight := 0, 0.0
	for i, wgt := range hist {
		if wgt > bestWeight {
			best, bestWeight = i, wgt
		}
	}
	if bestWeight == 0 {
		return 0
	}
	return float64(best)/2 - 45 + 0.25
}

func skewScore(deg float64) float64 {
	// 45 degrees of tilt exhausts the score.
	score := 100 - math.Abs(deg)/45*100
	return math.Max(score, 0)
}

func meanLuminance(gray *image.Gray) float64 {
	b := gray.Bounds()
	var sum float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += float64(gray.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// brightnessScore peaks at the ideal mid-tone and falls off toward crushed
// blacks or blown-out whites.
func brightnessScore(mean float64) float64 {
	score := 100 - math.Abs(mean-idealBrightness)/idealBrightness*100
	return math.Max(score, 0)
}
