package enum

// CartAction 表示觸發購物車通知的動作
type CartAction string

const (
	CartActionRefresh     CartAction = "refresh"      // 初始載入後的重新渲染
	CartActionAdd         CartAction = "add"          // 加入商品
	CartActionRemove      CartAction = "remove"       // 移除商品
	CartActionSetQuantity CartAction = "set_quantity" // 更新數量
)

func (a CartAction) Valid() bool {
	switch a {
	case CartActionRefresh, CartActionAdd, CartActionRemove, CartActionSetQuantity:
		return true
	}
	return false
}
