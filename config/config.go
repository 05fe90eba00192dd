package config

import (
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

// DiagnosticsConf gops 诊断代理。自旋等待卡住时可以用 gops stack <pid> 查看各 worker 停在哪里
type DiagnosticsConf struct {
	Enabled bool   `json:",optional"`
	Addr    string `json:",optional"` // 为空时由 gops 自选本地端口
}

// Config 配置优先级：配置文件 > 字段 tag 中的默认值
type Config struct {
	Log logx.LogConf

	MinThreads       int    `json:",default=1"`
	MaxThreads       int    `json:",default=5"`
	Iterations       int    `json:",default=100000"`
	CoarseSpinBudget int    `json:",default=10000000"`
	LockOSThread     bool   `json:",default=true"`
	Format           string `json:",default=text,options=text|json"`
	Metrics          bool   `json:",optional"`

	Diagnostics DiagnosticsConf `json:",optional"`
}

// Load file 为空时只填充默认值，支持 json/yaml/toml
func Load(file string) (Config, error) {
	var (
		c   Config
		err error
	)
	if file == "" {
		err = conf.FillDefault(&c)
	} else {
		err = conf.Load(file, &c)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", file, err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate 检查取值范围
func (c Config) Validate() error {
	var errs []error
	if c.MinThreads < 1 {
		errs = append(errs, fmt.Errorf("MinThreads must be >= 1, got %d", c.MinThreads))
	}
	if c.MaxThreads < c.MinThreads {
		errs = append(errs, fmt.Errorf("MaxThreads (%d) must be >= MinThreads (%d)", c.MaxThreads, c.MinThreads))
	}
	if c.Iterations < 1 {
		errs = append(errs, fmt.Errorf("Iterations must be >= 1, got %d", c.Iterations))
	}
	if c.CoarseSpinBudget < 1 {
		errs = append(errs, fmt.Errorf("CoarseSpinBudget must be >= 1, got %d", c.CoarseSpinBudget))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
