package pipeline

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SnapshotMeta is the sidecar metadata written next to each snapshot.
type SnapshotMeta struct {
	Timestamp   string  `yaml:"timestamp"`
	Device      string  `yaml:"device"`
	Calibrated  bool    `yaml:"calibrated"`
	PointCount  int     `yaml:"calibration_points"`
	FitOrder    int     `yaml:"fit_order"`
	RSquared    float64 `yaml:"r_squared,omitempty"`
	HoldPeaks   bool    `yaml:"hold_peaks"`
	SavGolOrder int     `yaml:"savgol_order"`
	MinDistance int     `yaml:"peak_min_distance"`
	Threshold   int     `yaml:"peak_threshold"`
}

// SaveSnapshot writes the rendered spectrum image, the optional
// waterfall image, the wavelength/intensity series as CSV and a YAML
// metadata sidecar, all timestamp-named, and returns the banner status
// line for the save.
func SaveSnapshot(dir string, spectrumImg, waterfallImg image.Image, wavelengths, intensity []float64, meta SnapshotMeta) (string, error) {
	now := time.Now()
	stamp := now.Format("20060102--150405")
	meta.Timestamp = now.Format(time.RFC3339)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	if waterfallImg != nil {
		if err := writePNG(filepath.Join(dir, "waterfall-"+stamp+".png"), waterfallImg); err != nil {
			return "", err
		}
	}
	if err := writePNG(filepath.Join(dir, "spectrum-"+stamp+".png"), spectrumImg); err != nil {
		return "", err
	}

	csvPath := filepath.Join(dir, "Spectrum-"+stamp+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", csvPath, err)
	}
	fmt.Fprintln(f, "Wavelength,Intensity")
	for i, wl := range wavelengths {
		var v float64
		if i < len(intensity) {
			v = intensity[i]
		}
		fmt.Fprintf(f, "%g,%g\n", wl, v)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", csvPath, err)
	}

	metaBytes, err := yaml.Marshal(&meta)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot metadata: %w", err)
	}
	metaPath := filepath.Join(dir, "Spectrum-"+stamp+".yaml")
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", metaPath, err)
	}

	return "Last Save: " + now.Format("15:04:05"), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
