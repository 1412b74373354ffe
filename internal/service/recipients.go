package service

// SelectRecipients возвращает участников в исходном порядке, исключая excludeIDs.
// Дубликаты и пустые ID пропускаются.
func SelectRecipients(members []string, excludeIDs ...string) []string {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	selected := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		if member == "" {
			continue
		}
		if _, ok := excluded[member]; ok {
			continue
		}
		if _, ok := seen[member]; ok {
			continue
		}
		seen[member] = struct{}{}
		selected = append(selected, member)
	}

	return selected
}
