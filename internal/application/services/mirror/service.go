package mirror

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/internal/domain/services/link"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/aria2"
	apperrors "github.com/easayliu/mirror-status-bot/internal/shared/errors"
	"github.com/easayliu/mirror-status-bot/pkg/httpclient"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	"github.com/easayliu/mirror-status-bot/pkg/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

const torrentContentType = "application/x-bittorrent"

// refreshConcurrency 同步状态时并发的 tellStatus 数
const refreshConcurrency = 4

// Downloader 下载引擎, 由 aria2.Client 实现
type Downloader interface {
	AddURI(ctx context.Context, uri string, options map[string]interface{}) (string, error)
	TellStatus(ctx context.Context, gid string) (*aria2.StatusResult, error)
	Remove(ctx context.Context, gid string) error
	Resume(ctx context.Context, gid string) error
}

// Config 镜像服务配置
type Config struct {
	DownloadDir   string
	UserTaskLimit int  // 0 不限
	Seed          bool // 下载完成后继续做种
	WebBaseURL    string
	WebPincode    bool
}

// SubmitRequest 一次 /mirror 提交
type SubmitRequest struct {
	Link    string
	Message *entities.Message
	Select  bool // 种子任务先暂停, 选完文件再开始
	IsAdmin bool
}

// SubmitResult 提交结果
type SubmitResult struct {
	GID     string
	Name    string
	Kind    link.Kind
	Torrent bool
	Buttons *tgbotapi.InlineKeyboardMarkup // 仅选文件模式下有
}

// Service 提交/取消任务, 并把 aria2 的状态同步进任务表
type Service struct {
	cfg      Config
	aria     Downloader
	reg      *status.Registry
	probeURL func(ctx context.Context, url string) string
}

var _ status.Refresher = (*Service)(nil)

// NewService 创建镜像服务
func NewService(cfg Config, aria Downloader, reg *status.Registry) *Service {
	return &Service{
		cfg:  cfg,
		aria: aria,
		reg:  reg,
		probeURL: func(ctx context.Context, url string) string {
			return httpclient.ContentType(ctx, url)
		},
	}
}

// Submit 校验链接并提交给 aria2, 成功后登记到任务表
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	uri := strings.TrimSpace(req.Link)
	kind := link.Classify(uri)
	logger.Info("Submitting mirror", "link", uri, "kind", kind)

	switch kind {
	case link.KindUnknown:
		return nil, apperrors.NewServiceError(apperrors.ErrorCodeInvalidRequest, "No valid link or magnet found")
	case link.KindGdrive, link.KindGdtot, link.KindUnified, link.KindUdrive, link.KindMega:
		return nil, apperrors.NewServiceErrorWithDetails(apperrors.ErrorCodeUnsupportedLink,
			fmt.Sprintf("%s links are not supported", kind),
			map[string]interface{}{"kind": string(kind)})
	}

	if err := s.checkUserLimit(req); err != nil {
		return nil, err
	}

	result := &SubmitResult{Kind: kind, Torrent: kind == link.KindMagnet}
	if kind == link.KindMagnet {
		if info, err := link.ParseMagnet(uri); err == nil {
			result.Name = info.DisplayName
		}
	} else {
		result.Torrent = s.isTorrent(ctx, uri)
	}

	options := map[string]interface{}{
		"dir": s.taskDir(req.Message),
	}
	if !s.cfg.Seed {
		options["seed-time"] = "0"
	}
	selecting := req.Select && result.Torrent
	if selecting {
		options["pause-metadata"] = "true"
		if kind != link.KindMagnet {
			options["pause"] = "true"
		}
	}

	gid, err := s.aria.AddURI(ctx, uri, options)
	if err != nil {
		logger.Error("Failed to add download", "link", uri, "error", err)
		var rpcErr *aria2.RPCError
		if errors.As(err, &rpcErr) {
			return nil, apperrors.NewServiceErrorWithCause(apperrors.ErrorCodeInvalidRequest, rpcErr.Message, err)
		}
		return nil, apperrors.NewServiceErrorWithCause(apperrors.ErrorCodeServiceUnavailable, "Download engine is not reachable", err)
	}
	result.GID = gid

	s.reg.Add(registryKey(req.Message, gid), aria2.NewDownload(gid, req.Message, s.cfg.Seed))
	if selecting {
		result.Buttons = SelectionButtons(gid, s.cfg.WebBaseURL, s.cfg.WebPincode)
	}

	logger.Info("Mirror submitted", "gid", gid, "torrent", result.Torrent, "select", selecting)
	return result, nil
}

func (s *Service) checkUserLimit(req SubmitRequest) error {
	if s.cfg.UserTaskLimit <= 0 || req.IsAdmin {
		return nil
	}
	userID, ok := req.Message.SenderID()
	if !ok {
		return nil
	}
	if count := s.reg.CountByOwner(userID); count >= s.cfg.UserTaskLimit {
		return apperrors.NewServiceErrorWithDetails(apperrors.ErrorCodeTaskLimit,
			fmt.Sprintf("You already have %d running tasks, the limit is %d", count, s.cfg.UserTaskLimit),
			map[string]interface{}{"count": count, "limit": s.cfg.UserTaskLimit})
	}
	return nil
}

func (s *Service) isTorrent(ctx context.Context, uri string) bool {
	if strings.HasSuffix(strings.ToLower(strings.SplitN(uri, "?", 2)[0]), ".torrent") {
		return true
	}
	return strings.HasPrefix(s.probeURL(ctx, uri), torrentContentType)
}

func (s *Service) taskDir(msg *entities.Message) string {
	if msg == nil {
		return s.cfg.DownloadDir
	}
	return filepath.Join(s.cfg.DownloadDir, strconv.Itoa(msg.ID))
}

// registryKey 消息ID只在单个聊天内唯一, 需要带上聊天ID
func registryKey(msg *entities.Message, gid string) string {
	if msg == nil {
		return gid
	}
	if msg.Chat == nil {
		return strconv.Itoa(msg.ID)
	}
	return fmt.Sprintf("%d:%d", msg.Chat.ID, msg.ID)
}

// Cancel 取消任务, 只有提交者或管理员可以取消
func (s *Service) Cancel(ctx context.Context, gid string, userID int64, isAdmin bool) (entities.Task, error) {
	task, err := s.ownedTask(gid, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.aria.Remove(ctx, task.GID()); err != nil {
		var rpcErr *aria2.RPCError
		if !errors.As(err, &rpcErr) {
			return nil, apperrors.NewServiceErrorWithCause(apperrors.ErrorCodeServiceUnavailable, "Download engine is not reachable", err)
		}
		// aria2 已经不认识这个gid, 任务表里的也一并清掉
		logger.Warn("aria2 rejected remove", "gid", gid, "error", err)
	}
	s.reg.RemoveByGid(task.GID())

	logger.Info("Task cancelled", "gid", gid, "user_id", userID)
	return task, nil
}

// ConfirmSelection 选完文件后恢复下载
func (s *Service) ConfirmSelection(ctx context.Context, gid string, userID int64, isAdmin bool) error {
	task, err := s.ownedTask(gid, userID, isAdmin)
	if err != nil {
		return err
	}
	if err := s.aria.Resume(ctx, task.GID()); err != nil {
		return apperrors.NewServiceErrorWithCause(apperrors.ErrorCodeServiceUnavailable, "Failed to resume download", err)
	}
	logger.Info("Selection confirmed", "gid", task.GID())
	return nil
}

// gidAliaser 接续过gid的任务, 旧gid仍然有效
type gidAliaser interface {
	HasGID(gid string) bool
}

func (s *Service) findTask(gid string) (entities.Task, bool) {
	if task, ok := s.reg.FindByGid(gid); ok {
		return task, true
	}
	for _, task := range s.reg.Snapshot() {
		if a, ok := task.(gidAliaser); ok && a.HasGID(gid) {
			return task, true
		}
	}
	return nil, false
}

func (s *Service) ownedTask(gid string, userID int64, isAdmin bool) (entities.Task, error) {
	task, ok := s.findTask(gid)
	if !ok {
		return nil, apperrors.NewServiceError(apperrors.ErrorCodeNotFound,
			fmt.Sprintf("GID: %s Not Found.", gid))
	}
	if owner, ok := task.Message().SenderID(); !isAdmin && (!ok || owner != userID) {
		return nil, apperrors.NewServiceError(apperrors.ErrorCodeForbidden, "This task is not for you!")
	}
	return task, nil
}

// Refresh 从 aria2 拉取所有任务的最新状态, 结束的任务移出任务表
func (s *Service) Refresh(ctx context.Context) error {
	var (
		mu    sync.Mutex
		errs  []error
		start = time.Now()
		tasks = s.reg.Snapshot()
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, task := range tasks {
		download, ok := task.(*aria2.Download)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := s.refreshOne(ctx, download); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(tasks) > 0 {
		logger.Debug("Tasks refreshed", "count", len(tasks), "errors", len(errs),
			"elapsed", utils.ReadableElapsed(time.Since(start).Milliseconds()))
	}
	return errors.Join(errs...)
}

func (s *Service) refreshOne(ctx context.Context, d *aria2.Download) error {
	gid := d.GID()
	result, err := s.aria.TellStatus(ctx, gid)
	if err != nil {
		var rpcErr *aria2.RPCError
		if errors.As(err, &rpcErr) {
			// 任务已被外部删除
			logger.Warn("Task vanished from aria2", "gid", gid, "error", rpcErr)
			s.reg.RemoveByGid(gid)
			return nil
		}
		return fmt.Errorf("refresh %s: %w", gid, err)
	}

	d.Update(result)
	if next, ok := d.FollowedBy(); ok && result.Status == aria2.StatusComplete {
		logger.Debug("Following metadata download", "gid", gid, "next", next)
		d.Follow(next)
		return nil
	}

	if d.Finished() {
		s.reg.RemoveByGid(gid)
		if taskErr := d.Err(); taskErr != nil {
			logger.Warn("Task failed", "gid", gid, "name", d.Name(), "error", taskErr)
		} else {
			logger.Info("Task finished", "gid", gid, "name", d.Name())
		}
	}
	return nil
}
