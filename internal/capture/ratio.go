package capture

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// PixelRatioEnv overrides the detected device pixel ratio.
const PixelRatioEnv = "HYDRASHOT_PIXEL_RATIO"

var xftDPIFn = func() (float64, error) { return backend.XftDPI() }

// PixelRatio resolves how many device pixels make one logical unit. The
// environment override wins, then a positive configured value, then
// GDK_SCALE, then the X resource Xft.dpi relative to 96. Anything else
// means 1.
func PixelRatio(configured float64) float64 {
	if r, ok := parseRatio(os.Getenv(PixelRatioEnv)); ok {
		return r
	}
	if configured > 0 {
		return configured
	}
	if r, ok := parseRatio(os.Getenv("GDK_SCALE")); ok {
		return r
	}
	if dpi, err := xftDPIFn(); err == nil && dpi > 0 {
		return dpi / 96
	}
	return 1
}

func parseRatio(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// parseXftDPI finds Xft.dpi in the RESOURCE_MANAGER string.
func parseXftDPI(resources string) (float64, bool) {
	sc := bufio.NewScanner(strings.NewReader(resources))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		return parseRatio(val)
	}
	return 0, false
}
