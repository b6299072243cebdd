package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
)

// collectNamespace はオブジェクトキーからネームスペースの最終更新時刻を集計します
func collectNamespace(acc map[string]service.StoredNamespace, key string, modified time.Time) {
	namespace, _, ok := strings.Cut(key, "/")
	if !ok || namespace == "" {
		return
	}
	ns := acc[namespace]
	ns.Name = namespace
	if modified.After(ns.ModifiedAt) {
		ns.ModifiedAt = modified
	}
	acc[namespace] = ns
}

func sortedNamespaces(acc map[string]service.StoredNamespace) []service.StoredNamespace {
	namespaces := make([]service.StoredNamespace, 0, len(acc))
	for _, ns := range acc {
		namespaces = append(namespaces, ns)
	}
	sort.Slice(namespaces, func(i, j int) bool { return namespaces[i].Name < namespaces[j].Name })
	return namespaces
}
