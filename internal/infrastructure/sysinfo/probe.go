package sysinfo

import (
	"fmt"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// Probe 读取本机的 CPU/内存/磁盘/网络指标
type Probe struct{}

// NewProbe 创建探针
func NewProbe() *Probe {
	return &Probe{}
}

// CPUPercent 自上次调用以来的CPU占用
func (p *Probe) CPUPercent() (float64, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("failed to read cpu usage: no data")
	}
	return percents[0], nil
}

// MemoryPercent 内存占用
func (p *Probe) MemoryPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read memory usage: %w", err)
	}
	return vm.UsedPercent, nil
}

// DiskUsage 路径所在分区的用量
func (p *Probe) DiskUsage(path string) (*entities.DiskStats, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage of %s: %w", path, err)
	}
	return &entities.DiskStats{
		Path:        usage.Path,
		Total:       usage.Total,
		Used:        usage.Used,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}

// NetIO 所有网卡的累计收发字节
func (p *Probe) NetIO() (*entities.NetStats, error) {
	counters, err := net.IOCounters(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read net counters: %w", err)
	}
	if len(counters) == 0 {
		return &entities.NetStats{}, nil
	}
	return &entities.NetStats{
		BytesRecv: counters[0].BytesRecv,
		BytesSent: counters[0].BytesSent,
	}, nil
}
