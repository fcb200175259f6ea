package store

// 以下辅助函数在有改动时总是返回新的切片，从不修改传入的切片

func appendItem[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func replaceByID[T any](items []T, id int64, idOf func(T) int64, item T) ([]T, bool) {
	return patchByID(items, id, idOf, func(p *T) { *p = item })
}

func patchByID[T any](items []T, id int64, idOf func(T) int64, patch func(*T)) ([]T, bool) {
	for i := range items {
		if idOf(items[i]) != id {
			continue
		}
		out := make([]T, len(items))
		copy(out, items)
		patch(&out[i])
		return out, true
	}
	return items, false
}

func removeByID[T any](items []T, id int64, idOf func(T) int64) []T {
	idx := -1
	for i := range items {
		if idOf(items[i]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func containsID[T any](items []T, id int64, idOf func(T) int64) bool {
	for i := range items {
		if idOf(items[i]) == id {
			return true
		}
	}
	return false
}

// cloneList 复制服务端返回的列表，并把 nil 规范为空切片
func cloneList[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
