package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/locomotion/internal/locomotion"
	"github.com/Versifine/locomotion/internal/physics"
)

// TestLoad 使用表驱动测试覆盖配置加载的核心场景
func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:       "正常加载有效YAML",
			createFile: true,
			content: `logging:
  level: "debug"
  format: "text"
  file: "locomotion.log"
sandbox:
  scene: "arena.yaml"
  tick_interval: 20ms
  watch: true
locomotion:
  speed:
    base: 3
  jump:
    height: 0.8
  climb:
    blend: out-cubic
  layers:
    terrain: [terrain, default]
`,
			wantErr: false,
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("Logging.Level = %q, 期望 %q", cfg.Logging.Level, "debug")
				}
				if cfg.Logging.File != "locomotion.log" {
					t.Errorf("Logging.File = %q, 期望 %q", cfg.Logging.File, "locomotion.log")
				}
				if cfg.Sandbox.TickInterval != 20*time.Millisecond {
					t.Errorf("Sandbox.TickInterval = %v, 期望 %v", cfg.Sandbox.TickInterval, 20*time.Millisecond)
				}
				if filepath.Base(cfg.Sandbox.Scene) != "arena.yaml" || !filepath.IsAbs(cfg.Sandbox.Scene) {
					t.Errorf("Sandbox.Scene = %q, 期望相对配置文件解析", cfg.Sandbox.Scene)
				}
				if !cfg.Sandbox.Watch {
					t.Error("Sandbox.Watch 应为 true")
				}
				if cfg.Locomotion.Speed.Base != 3 {
					t.Errorf("Speed.Base = %v, 期望 3", cfg.Locomotion.Speed.Base)
				}
				// 未覆盖的字段保留默认值
				if cfg.Locomotion.Speed.SprintMultiplier != 3 {
					t.Errorf("Speed.SprintMultiplier = %v, 期望默认值 3", cfg.Locomotion.Speed.SprintMultiplier)
				}
				if cfg.Locomotion.Jump.Height != 0.8 {
					t.Errorf("Jump.Height = %v, 期望 0.8", cfg.Locomotion.Jump.Height)
				}
				if cfg.Locomotion.Climb.Blend != locomotion.BlendOutCubic {
					t.Errorf("Climb.Blend = %q, 期望 %q", cfg.Locomotion.Climb.Blend, locomotion.BlendOutCubic)
				}
				want := physics.LayerTerrain.Mask() | physics.LayerDefault.Mask()
				if cfg.Locomotion.Layers.Terrain != want {
					t.Errorf("Layers.Terrain = %v, 期望 %v", cfg.Locomotion.Layers.Terrain, want)
				}
			},
		},
		{
			name:       "文件不存在",
			createFile: false,
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("期望文件不存在错误，实际: %v", err)
				}
			},
		},
		{
			name:       "YAML格式错误",
			createFile: true,
			content: `sandbox:
  tick_interval: [20ms
`,
			wantErr: true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "yaml") {
					t.Errorf("期望返回YAML解析错误，实际: %v", err)
				}
			},
		},
		{
			name:       "校验失败",
			createFile: true,
			content: `locomotion:
  gravity:
    acceleration: 9.81
`,
			wantErr: true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "gravity.acceleration") {
					t.Errorf("期望返回重力校验错误，实际: %v", err)
				}
			},
		},
		{
			name:       "未知混合模式",
			createFile: true,
			content: `locomotion:
  climb:
    blend: bounce
`,
			wantErr: true,
		},
		{
			name:       "空文件",
			createFile: true,
			content:    "",
			wantErr:    false,
			validate: func(t *testing.T, cfg *Config, err error) {
				// 空文件使用全部默认值
				def := Default()
				if cfg.Logging != def.Logging {
					t.Errorf("Logging = %+v, 期望默认值 %+v", cfg.Logging, def.Logging)
				}
				if cfg.Locomotion != def.Locomotion {
					t.Errorf("Locomotion 应为默认值，实际: %+v", cfg.Locomotion)
				}
				if cfg.Sandbox.TickInterval != def.Sandbox.TickInterval {
					t.Errorf("TickInterval = %v, 期望 %v", cfg.Sandbox.TickInterval, def.Sandbox.TickInterval)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "config.yaml")

			if tt.createFile {
				if err := os.WriteFile(configPath, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("创建测试配置文件失败: %v", err)
				}
			}

			cfg, err := Load(configPath)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err == nil && cfg == nil {
				t.Fatalf("Load() 返回了 nil 配置")
			}

			if tt.validate != nil {
				tt.validate(t, cfg, err)
			}
		})
	}
}

// TestDefaultIsValid 默认配置必须通过校验
func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

// TestValidateRejects 覆盖各个字段的校验
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"日志级别", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"日志格式", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"tick间隔", func(c *Config) { c.Sandbox.TickInterval = 0 }, "sandbox.tick_interval"},
		{"基础速度", func(c *Config) { c.Locomotion.Speed.Base = -1 }, "speed.base"},
		{"坡度上限", func(c *Config) { c.Locomotion.Slope.LimitDegrees = 95 }, "slope.limit_degrees"},
		{"地形层", func(c *Config) { c.Locomotion.Layers.Terrain = 0 }, "layers.terrain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("Validate() = %v, 期望包含 %q", err, tt.field)
			}
		})
	}
}

// TestShippedConfig 仓库自带的配置必须可加载
func TestShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("Load() 返回错误: %v", err)
	}
	if cfg.Locomotion != locomotion.DefaultSettings() {
		t.Errorf("自带配置应与默认参数一致，实际: %+v", cfg.Locomotion)
	}
	if filepath.Base(cfg.Sandbox.Scene) != "scene.yaml" {
		t.Errorf("Sandbox.Scene = %q", cfg.Sandbox.Scene)
	}
}
