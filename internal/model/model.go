package model

// All 需要迁移的全部模型，server/seeder/测试共用
func All() []interface{} {
	return []interface{}{
		&User{}, &Video{}, &Comment{}, &Like{}, &Subscription{}, &Tweet{}, &Playlist{}, &PlaylistVideo{},
	}
}
