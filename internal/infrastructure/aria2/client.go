package aria2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/easayliu/mirror-status-bot/pkg/httpclient"
	"github.com/google/uuid"
)

// Client Aria2 JSON-RPC 客户端
type Client struct {
	RpcURL     string
	Token      string
	httpClient *http.Client
}

// NewClient 创建新的Aria2客户端
func NewClient(rpcURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		RpcURL: rpcURL,
		Token:  token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RPCRequest JSON-RPC请求结构
type RPCRequest struct {
	Version string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	ID      string        `json:"id"`
	Params  []interface{} `json:"params"`
}

// RPCResponse JSON-RPC响应结构
type RPCResponse struct {
	Version string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError JSON-RPC错误结构
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error: %s (code: %d)", e.Message, e.Code)
}

// StatusResult aria2.tellStatus 的返回, 数值字段都是字符串
type StatusResult struct {
	GID             string      `json:"gid"`
	Status          string      `json:"status"`
	TotalLength     string      `json:"totalLength"`
	CompletedLength string      `json:"completedLength"`
	UploadLength    string      `json:"uploadLength"`
	DownloadSpeed   string      `json:"downloadSpeed"`
	UploadSpeed     string      `json:"uploadSpeed"`
	Connections     string      `json:"connections"`
	NumSeeders      string      `json:"numSeeders,omitempty"`
	Seeder          string      `json:"seeder,omitempty"`
	InfoHash        string      `json:"infoHash,omitempty"`
	Dir             string      `json:"dir"`
	FollowedBy      []string    `json:"followedBy,omitempty"`
	ErrorCode       string      `json:"errorCode,omitempty"`
	ErrorMessage    string      `json:"errorMessage,omitempty"`
	Bittorrent      *Bittorrent `json:"bittorrent,omitempty"`
	Files           []File      `json:"files,omitempty"`
}

// Bittorrent 种子任务的附加信息
type Bittorrent struct {
	Info *struct {
		Name string `json:"name"`
	} `json:"info,omitempty"`
}

// File 任务中的单个文件
type File struct {
	Path string `json:"path"`
	URIs []struct {
		URI    string `json:"uri"`
		Status string `json:"status"`
	} `json:"uris"`
}

// VersionResult 版本信息结果
type VersionResult struct {
	Version  string   `json:"version"`
	Features []string `json:"enabledFeatures"`
}

// callRPC 调用RPC方法并把结果解码到 result
func (c *Client) callRPC(ctx context.Context, method string, params []interface{}, result interface{}) error {
	// 如果有token，添加到参数前面
	if c.Token != "" {
		params = append([]interface{}{"token:" + c.Token}, params...)
	}
	if params == nil {
		params = []interface{}{}
	}

	request := RPCRequest{
		Version: "2.0",
		Method:  method,
		ID:      uuid.NewString(),
		Params:  params,
	}

	var rpcResp RPCResponse
	opts := httpclient.DefaultOptions().WithContext(ctx).WithClient(c.httpClient)
	if err := httpclient.PostJSON(c.RpcURL, request, &rpcResp, opts); err != nil {
		// aria2 出错时返回 4xx/5xx, 响应体里仍是 JSON-RPC 错误
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && json.Unmarshal(statusErr.Body, &rpcResp) == nil && rpcResp.Error != nil {
			return fmt.Errorf("%s: %w", method, rpcResp.Error)
		}
		return fmt.Errorf("%s: %w", method, err)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to parse %s result: %w", method, err)
	}
	return nil
}

// AddURI 添加下载任务, 返回gid
func (c *Client) AddURI(ctx context.Context, uri string, options map[string]interface{}) (string, error) {
	params := []interface{}{[]string{uri}}
	if options != nil {
		params = append(params, options)
	}

	var gid string
	if err := c.callRPC(ctx, "aria2.addUri", params, &gid); err != nil {
		return "", err
	}
	return gid, nil
}

// TellStatus 获取下载状态
func (c *Client) TellStatus(ctx context.Context, gid string) (*StatusResult, error) {
	var status StatusResult
	if err := c.callRPC(ctx, "aria2.tellStatus", []interface{}{gid}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Resume 恢复下载
func (c *Client) Resume(ctx context.Context, gid string) error {
	return c.callRPC(ctx, "aria2.unpause", []interface{}{gid}, nil)
}

// Remove 强制删除下载并清除结果
func (c *Client) Remove(ctx context.Context, gid string) error {
	if err := c.callRPC(ctx, "aria2.forceRemove", []interface{}{gid}, nil); err != nil {
		return err
	}
	// 清理结果失败不影响取消
	_ = c.callRPC(ctx, "aria2.removeDownloadResult", []interface{}{gid}, nil)
	return nil
}

// GetVersion 获取Aria2版本信息
func (c *Client) GetVersion(ctx context.Context) (*VersionResult, error) {
	var version VersionResult
	if err := c.callRPC(ctx, "aria2.getVersion", nil, &version); err != nil {
		return nil, err
	}
	return &version, nil
}
