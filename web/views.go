package web

import (
	"gameportal/models"
)

// userView is the public shape of an account. Internal ids and password
// hashes never leave the service boundary.
type userView struct {
	ID        int64   `json:"id"`
	UID       string  `json:"uid"`
	Username  string  `json:"username"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Orbs      int64   `json:"orbs,omitempty"`
	Status    string  `json:"status"`
}

// viewOfUser renders the owner's view, email and balance included.
func viewOfUser(u *models.User) userView {
	return userView{
		ID:        u.ID,
		UID:       u.UID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Orbs:      u.Orbs,
		Status:    string(u.Status),
	}
}

// viewOfFriend renders another user's view, with the private fields
// stripped.
func viewOfFriend(u *models.User) userView {
	return userView{
		ID:        u.ID,
		UID:       u.UID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Status:    string(u.Status),
	}
}

func viewOfFriends(users []*models.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewOfFriend(u))
	}
	return views
}

type cartItemView struct {
	GameID  string  `json:"game_id"`
	Name    string  `json:"name"`
	GameURL string  `json:"game_url,omitempty"`
	Image   string  `json:"image,omitempty"`
	Price   *string `json:"price"` // null when the price is unknown
}

func viewOfCart(items []*models.CartItem) []cartItemView {
	views := make([]cartItemView, 0, len(items))
	for _, item := range items {
		view := cartItemView{
			GameID:  item.GameID,
			Name:    item.Name,
			GameURL: item.GameURL,
			Image:   item.Image,
		}
		if item.Price.Valid {
			price := item.Price.Decimal.StringFixed(2)
			view.Price = &price
		}
		views = append(views, view)
	}
	return views
}

type wishlistItemView struct {
	GameID  string `json:"game_id"`
	Name    string `json:"name"`
	GameURL string `json:"game_url,omitempty"`
	Image   string `json:"image,omitempty"`
}

func viewOfWishlist(items []*models.WishlistItem) []wishlistItemView {
	views := make([]wishlistItemView, 0, len(items))
	for _, item := range items {
		views = append(views, wishlistItemView{
			GameID:  item.GameID,
			Name:    item.Name,
			GameURL: item.GameURL,
			Image:   item.Image,
		})
	}
	return views
}

type libraryItemView struct {
	GameID         string `json:"game_id"`
	Name           string `json:"name"`
	GameURL        string `json:"game_url,omitempty"`
	Image          string `json:"image,omitempty"`
	PurchasedPrice string `json:"purchased_price"`
	PurchasedAt    string `json:"purchased_at"`
}

func viewOfLibrary(items []*models.LibraryItem) []libraryItemView {
	views := make([]libraryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, libraryItemView{
			GameID:         item.GameID,
			Name:           item.Name,
			GameURL:        item.GameURL,
			Image:          item.Image,
			PurchasedPrice: item.PurchasedPrice,
			PurchasedAt:    item.PurchasedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return views
}

type transactionView struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      int64   `json:"amount"`
	CashAmount  *string `json:"cash_amount"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func viewOfTransactions(txns []*models.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txns))
	for _, txn := range txns {
		view := transactionView{
			ID:          txn.ID,
			Type:        string(txn.Type),
			Amount:      txn.Amount,
			Description: txn.Description,
			Status:      string(txn.Status),
			CreatedAt:   txn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if txn.CashAmount.Valid {
			cash := txn.CashAmount.Decimal.StringFixed(2)
			view.CashAmount = &cash
		}
		views = append(views, view)
	}
	return views
}

type settlementView struct {
	AlreadySettled bool              `json:"already_settled"`
	TransactionID  int64             `json:"transaction_id"`
	OrbsSpent      int64             `json:"orbs_spent"`
	OrbsRewarded   int64             `json:"orbs_rewarded"`
	CashAmount     string            `json:"cash_amount"`
	NewBalance     int64             `json:"new_balance"`
	Items          []libraryItemView `json:"items"`
}

func viewOfSettlement(r *models.SettlementResult) settlementView {
	return settlementView{
		AlreadySettled: r.AlreadySettled,
		TransactionID:  r.TransactionID,
		OrbsSpent:      r.OrbsSpent,
		OrbsRewarded:   r.OrbsRewarded,
		CashAmount:     r.CashAmount.StringFixed(2),
		NewBalance:     r.NewBalance,
		Items:          viewOfLibrary(r.Items),
	}
}

type friendRequestView struct {
	ID        int64    `json:"id"`
	Requester userView `json:"requester"`
	CreatedAt string   `json:"created_at"`
}

func viewOfRequests(requests []*models.FriendRequest) []friendRequestView {
	views := make([]friendRequestView, 0, len(requests))
	for _, req := range requests {
		view := friendRequestView{
			ID:        req.ID,
			CreatedAt: req.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if req.Requester != nil {
			view.Requester = viewOfFriend(req.Requester)
		}
		views = append(views, view)
	}
	return views
}
