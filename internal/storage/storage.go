package storage

import "context"

// MediaAsset 上传到对象存储后的媒体信息，Duration只有视频文件才有（秒），拿不到时为0
type MediaAsset struct {
	URL      string
	Duration float64
}

// MediaStorage 媒体文件存储：Store把本地临时文件上传并返回公开地址，Release按地址删除
type MediaStorage interface {
	Store(ctx context.Context, localPath string) (MediaAsset, error)
	Release(ctx context.Context, url string) error
}
