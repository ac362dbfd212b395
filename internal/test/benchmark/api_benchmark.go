// Package benchmark 对接口做并发压测，可指向运行中的服务或进程内服务
package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dongliang3571/kanic-server/internal/error/response"
)

// Endpoint 被压测的接口
type Endpoint struct {
	Method string
	Path   string
	Body   interface{}
}

// APIBenchmark 以固定数量的 worker 并发请求同一接口
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	// AuthHeader 完整的 Authorization 头，例如 "Bearer xxx" 或 "JWT xxx"
	AuthHeader string
	Client     *http.Client
}

// BenchmarkResult 压测结果
type BenchmarkResult struct {
	Endpoint      Endpoint
	TotalRequests int
	SuccessCount  int
	StatusCodes   map[int]int
	// BusinessCodes 响应信封中的 code 分布
	BusinessCodes map[int]int
	Errors        []string
	Elapsed       time.Duration
	latencies     []time.Duration
}

type sample struct {
	latency time.Duration
	status  int
	bizCode int
	hasBody bool
	err     error
}

// NewAPIBenchmark 创建压测实例
func NewAPIBenchmark(baseURL string, concurrency, requests int) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Concurrency: concurrency,
		Requests:    requests,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken 返回使用指定前缀和令牌认证的副本
func (b *APIBenchmark) WithToken(scheme, token string) *APIBenchmark {
	c := *b
	c.AuthHeader = scheme + " " + token
	return &c
}

// Run 执行压测，ctx 取消后未开始的请求不再发送
func (b *APIBenchmark) Run(ctx context.Context, ep Endpoint) *BenchmarkResult {
	var payload []byte
	if ep.Body != nil {
		raw, err := json.Marshal(ep.Body)
		if err != nil {
			return &BenchmarkResult{Endpoint: ep, Errors: []string{err.Error()}}
		}
		payload = raw
	}

	jobs := make(chan struct{})
	samples := make(chan sample, b.Requests)
	var wg sync.WaitGroup
	for i := 0; i < b.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				samples <- b.do(ctx, ep, payload)
			}
		}()
	}

	start := time.Now()
feed:
	for i := 0; i < b.Requests && ctx.Err() == nil; i++ {
		select {
		case jobs <- struct{}{}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(samples)

	result := &BenchmarkResult{
		Endpoint:      ep,
		StatusCodes:   make(map[int]int),
		BusinessCodes: make(map[int]int),
		Elapsed:       time.Since(start),
	}
	for s := range samples {
		result.TotalRequests++
		if s.err != nil {
			result.Errors = append(result.Errors, s.err.Error())
			continue
		}
		result.latencies = append(result.latencies, s.latency)
		result.StatusCodes[s.status]++
		if s.hasBody {
			result.BusinessCodes[s.bizCode]++
		}
		if s.status >= 200 && s.status < 300 {
			result.SuccessCount++
		}
	}
	sort.Slice(result.latencies, func(i, j int) bool { return result.latencies[i] < result.latencies[j] })
	return result
}

func (b *APIBenchmark) do(ctx context.Context, ep Endpoint, payload []byte) sample {
	req, err := http.NewRequestWithContext(ctx, ep.Method, b.BaseURL+ep.Path, bytes.NewReader(payload))
	if err != nil {
		return sample{err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.AuthHeader != "" {
		req.Header.Set("Authorization", b.AuthHeader)
	}

	start := time.Now()
	resp, err := b.Client.Do(req)
	if err != nil {
		return sample{err: err}
	}
	defer resp.Body.Close()

	s := sample{latency: time.Since(start), status: resp.StatusCode}
	var env response.Response
	if raw, err := io.ReadAll(resp.Body); err == nil && json.Unmarshal(raw, &env) == nil {
		s.bizCode = env.Code
		s.hasBody = true
	}
	return s
}

// FailureCount 失败请求数，包括网络错误
func (r *BenchmarkResult) FailureCount() int {
	return r.TotalRequests - r.SuccessCount
}

// SuccessRate 成功请求占比
func (r *BenchmarkResult) SuccessRate() float64 {
	if r.TotalRequests == 0 {
		return 0
	}
	return float64(r.SuccessCount) / float64(r.TotalRequests) * 100
}

// Percentile 返回延迟分位数，p 取值 0-100
func (r *BenchmarkResult) Percentile(p float64) time.Duration {
	if len(r.latencies) == 0 {
		return 0
	}
	idx := int(float64(len(r.latencies)-1) * p / 100)
	return r.latencies[idx]
}

// RequestsPerSec 吞吐量
func (r *BenchmarkResult) RequestsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.TotalRequests) / r.Elapsed.Seconds()
}

func (r *BenchmarkResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %d 请求, 成功率 %.2f%%, %.2f req/s, p50=%s p95=%s max=%s",
		r.Endpoint.Method, r.Endpoint.Path, r.TotalRequests, r.SuccessRate(), r.RequestsPerSec(),
		r.Percentile(50), r.Percentile(95), r.Percentile(100))
	fmt.Fprintf(&sb, ", 状态码 %v, 业务码 %v", r.StatusCodes, r.BusinessCodes)
	if n := len(r.Errors); n > 0 {
		fmt.Fprintf(&sb, ", 错误 %d 个, 首个: %s", n, r.Errors[0])
	}
	return sb.String()
}
