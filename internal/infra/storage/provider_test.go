package storage

import (
	"context"
	"testing"

	"github.com/dustinreed/portfolio/pkg/constant"
)

func TestNewObjectStore(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantNil  bool
		wantErr  bool
		describe string
	}{
		{
			name:    "none 驱动不创建存储",
			opts:    Options{Driver: constant.DriverNone},
			wantNil: true,
		},
		{
			name:     "memory 驱动无需存储桶",
			opts:     Options{Driver: constant.DriverMemory},
			describe: "Memory",
		},
		{
			name:    "未知驱动",
			opts:    Options{Driver: "ftp", Bucket: "b"},
			wantNil: true,
			wantErr: true,
		},
		{
			name:    "缺少存储桶",
			opts:    Options{Driver: constant.DriverLocal},
			wantNil: true,
			wantErr: true,
		},
		{
			name:    "redis 驱动缺少连接",
			opts:    Options{Driver: constant.DriverRedis, Bucket: "b"},
			wantNil: true,
			wantErr: true,
		},
		{
			name:    "阿里云缺少密钥",
			opts:    Options{Driver: constant.DriverAliOSS, Bucket: "b", Endpoint: "https://oss-cn-shanghai.aliyuncs.com"},
			wantNil: true,
			wantErr: true,
		},
		{
			name:    "七牛云缺少域名",
			opts:    Options{Driver: constant.DriverQiniu, Bucket: "b", AccessKey: "ak", SecretKey: "sk"},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewObjectStore(context.Background(), tt.opts, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewObjectStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (store == nil) != tt.wantNil {
				t.Fatalf("NewObjectStore() store = %v, wantNil %v", store, tt.wantNil)
			}
			if tt.describe != "" && store.Describe() != tt.describe {
				t.Errorf("Describe() = %q, 期望 %q", store.Describe(), tt.describe)
			}
		})
	}
}
