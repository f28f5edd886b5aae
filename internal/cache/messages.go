// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

// catalog holds the diagnostic text for one locale.
type catalog struct {
	cached         string // key, size
	overBudget     string // key, size, free
	duplicate      string // key
	use            string // count, key
	useLimit       string // count, max
	expired        string // age seconds, live seconds
	sessionChanged string
	cleared        string
	missing        string // key
	removed        string // key
	summary        string

	// Field names for the summary line.
	fStore, fCount, fUsed, fFree string
}

var catalogs = map[Locale]catalog{
	English: {
		cached:         "cached %s using %s",
		overBudget:     "not enough memory to cache %s (%s needed, %s free)",
		duplicate:      "%s is already cached",
		use:            "use #%d of %s",
		useLimit:       "use limit reached: used %d times, %d allowed",
		expired:        "entry too old: %.0fs, %.0fs allowed",
		sessionChanged: "session changed",
		cleared:        "cache cleared",
		missing:        "%s does not exist",
		removed:        "removed %s",
		summary:        "cache summary",
		fStore:         "store",
		fCount:         "entries",
		fUsed:          "used",
		fFree:          "free",
	},
	Chinese: {
		cached:         "缓存 %s 成功, 占用内存 %s",
		overBudget:     "可用内存不足, 无法缓存 %s (需要 %s, 剩余 %s)",
		duplicate:      "%s 已经在缓存中",
		use:            "第 %d 次调用 %s",
		useLimit:       "超过最大使用次数: 当前使用次数 %d, 允许最大使用次数 %d",
		expired:        "过老的数据: 当前 %.0f 秒, 允许最大 %.0f 秒",
		sessionChanged: "用户状态发生了改变",
		cleared:        "缓存数据已经被清空",
		missing:        "%s 记录不存在",
		removed:        "已删除 %s",
		summary:        "仓库信息",
		fStore:         "仓库名",
		fCount:         "缓存条数",
		fUsed:          "内存占用量",
		fFree:          "剩余可用内存",
	},
}
