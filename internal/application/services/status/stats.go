package status

import (
	"fmt"
	"strconv"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
)

// SystemStatsSummary 统计弹窗的文本, 作为回调提示显示
func (r *Renderer) SystemStatsSummary() string {
	cpu, ram := "N/A", "N/A"
	if r.probe != nil {
		if v, err := r.probe.CPUPercent(); err == nil {
			cpu = formatPercent(v) + "%"
		}
		if v, err := r.probe.MemoryPercent(); err == nil {
			ram = formatPercent(v) + "%"
		}
	}

	counts := r.pager.reg.CountByStatus()
	total := 0
	for _, n := range counts {
		total += n
	}

	limits := r.opts.Limits
	return fmt.Sprintf("\nCPU : %s | RAM : %s\n"+
		"DL : %d | UP : %d | SPLIT : %d\n"+
		"ZIP : %d | UNZIP : %d | TOTAL : %d\n"+
		"Limits : T/D : %s | Z/U : %s\n"+
		"L : %s | M : %s\n"+
		"Made with ❤️ by %s\n",
		cpu, ram,
		counts[entities.StatusDownloading], counts[entities.StatusUploading], counts[entities.StatusSplitting],
		counts[entities.StatusArchiving], counts[entities.StatusExtracting], total,
		formatLimit(limits.TorrentDirect), formatLimit(limits.ZipUnzip),
		formatLimit(limits.Leech), formatLimit(limits.Mega),
		r.opts.CreditName)
}

// formatLimit 0 表示不限
func formatLimit(gb float64) string {
	if gb <= 0 {
		return "∞"
	}
	return strconv.FormatFloat(gb, 'f', -1, 64) + "GB"
}
