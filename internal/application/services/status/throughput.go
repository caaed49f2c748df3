package status

import (
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/pkg/utils"
)

// Throughput 全局速度, 单位 字节/秒
type Throughput struct {
	Download float64 `json:"download"`
	Upload   float64 `json:"upload"`
}

// AggregateThroughput 汇总所有任务的速度
// 下载中计入下载, 上传中和做种计入上传, 做种取上传速度字段
func AggregateThroughput(tasks []entities.Task) Throughput {
	var t Throughput
	for _, task := range tasks {
		switch task.Status() {
		case entities.StatusDownloading:
			t.Download += utils.ParseSpeed(task.Speed())
		case entities.StatusUploading:
			t.Upload += utils.ParseSpeed(task.Speed())
		case entities.StatusSeeding:
			if seed, ok := task.(entities.SeedReporter); ok {
				t.Upload += utils.ParseSpeed(seed.UploadSpeed())
			}
		}
	}
	return t
}
