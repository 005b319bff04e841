package settlement

// GroupFold 对已按分组键排序的行做有序折叠：键变化时依次触发上一组的
// OnGroupEnd 与新组的 OnGroupStart，每行触发 OnRow。
type GroupFold[R any, K comparable] struct {
	Key          func(R) K
	OnGroupStart func(R) error // 组内第一行
	OnRow        func(R) error
	OnGroupEnd   func(R) error // 组内最后一行
}

// Run 顺序折叠全部行，任一回调返回错误即中止。
func (g GroupFold[R, K]) Run(rows []R) error {
	if len(rows) == 0 {
		return nil
	}

	var currentKey K
	var lastRow R
	open := false

	for _, row := range rows {
		key := g.Key(row)
		if !open || key != currentKey {
			if open && g.OnGroupEnd != nil {
				if err := g.OnGroupEnd(lastRow); err != nil {
					return err
				}
			}
			currentKey = key
			open = true
			if g.OnGroupStart != nil {
				if err := g.OnGroupStart(row); err != nil {
					return err
				}
			}
		}
		if g.OnRow != nil {
			if err := g.OnRow(row); err != nil {
				return err
			}
		}
		lastRow = row
	}

	if g.OnGroupEnd != nil {
		return g.OnGroupEnd(lastRow)
	}
	return nil
}
