package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nibzard/tasker/internal/appdir"
)

// expandPath resolves environment variables and a leading "~" in the
// data, backup and log paths. On Windows %VAR% and "~\" also work.
func expandPath(p string) string {
	p = os.Expand(p, lookupEnv)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	switch {
	case p == "~":
		return appdir.Home()
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(appdir.Home(), p[2:])
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		return filepath.Join(appdir.Home(), p[2:])
	}
	return p
}

// lookupEnv keeps unknown variables as written so a typo stays visible in
// the resulting path.
func lookupEnv(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return "$" + key
}

// expandPercentVars replaces %VAR% references. Unknown variables and a
// lone % are left alone.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			break
		}
		key := p[start+1 : start+1+end]
		b.WriteString(p[:start])
		if v, ok := os.LookupEnv(key); ok && key != "" {
			b.WriteString(v)
			p = p[start+end+2:]
			continue
		}
		b.WriteString(p[start : start+end+1])
		p = p[start+end+1:]
	}
	b.WriteString(p)
	return b.String()
}
