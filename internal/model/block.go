package model

// Block 调查表中的有序区块
type Block struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Completed   bool    `json:"completed" yaml:"completed"`
	IsGrid      bool    `json:"is_grid" yaml:"is_grid"`
}

// Clone 深拷贝区块
func (b Block) Clone() Block {
	out := b
	out.Fields = make([]Field, len(b.Fields))
	for i, f := range b.Fields {
		out.Fields[i] = f.Clone()
	}
	return out
}

// Direction 区块移动方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// IsValid 判断方向是否合法
func (d Direction) IsValid() bool {
	return d == DirectionUp || d == DirectionDown
}

// BlockList 有序区块列表
// 所有变更操作返回新列表,不修改接收者
type BlockList []Block

// IndexOf 返回区块下标,不存在返回 -1
func (l BlockList) IndexOf(id string) int {
	for i, b := range l {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Clone 深拷贝列表
func (l BlockList) Clone() BlockList {
	out := make(BlockList, len(l))
	for i, b := range l {
		out[i] = b.Clone()
	}
	return out
}

// Swap 交换 i 和 j 位置的区块,下标越界时返回原列表的副本
func (l BlockList) Swap(i, j int) BlockList {
	out := l.Clone()
	if i < 0 || j < 0 || i >= len(out) || j >= len(out) {
		return out
	}
	out[i], out[j] = out[j], out[i]
	return out
}

// Move 将区块与相邻区块交换
// 首个区块上移、末尾区块下移以及未知 ID 均为空操作,此时 moved 为 false
func (l BlockList) Move(id string, dir Direction) (result BlockList, moved bool) {
	current := l.IndexOf(id)
	if current == -1 || !dir.IsValid() {
		return l.Clone(), false
	}

	target := current + 1
	if dir == DirectionUp {
		target = current - 1
	}
	if target < 0 || target >= len(l) {
		return l.Clone(), false
	}

	return l.Swap(current, target), true
}

// Replace 替换同 ID 区块
func (l BlockList) Replace(block Block) (BlockList, bool) {
	idx := l.IndexOf(block.ID)
	if idx == -1 {
		return l.Clone(), false
	}
	out := l.Clone()
	out[idx] = block.Clone()
	return out, true
}

// Remove 移除指定 ID 区块
func (l BlockList) Remove(id string) (BlockList, bool) {
	out := make(BlockList, 0, len(l))
	removed := false
	for _, b := range l {
		if b.ID == id {
			removed = true
			continue
		}
		out = append(out, b.Clone())
	}
	return out, removed
}

// IDs 返回按顺序排列的区块 ID
func (l BlockList) IDs() []string {
	ids := make([]string, len(l))
	for i, b := range l {
		ids[i] = b.ID
	}
	return ids
}
