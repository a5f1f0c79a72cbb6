package rbac

import "sync"

// Table 路由访问声明表，键为 "METHOD 路由模式"
type Table struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

func NewTable() *Table {
	return &Table{rules: make(map[string]Rule)}
}

// Register 注册路由声明，重复注册以最后一次为准
func (t *Table) Register(method, path string, rule Rule) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules[key(method, path)] = rule
}

// Lookup 查找路由声明，未注册的路由按"登录即可访问"处理
func (t *Table) Lookup(method, path string) Rule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if rule, ok := t.rules[key(method, path)]; ok {
		return rule
	}
	return Authenticated()
}

// Len 已注册的路由数
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rules)
}

func key(method, path string) string {
	return method + " " + path
}
