package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"nexbuzzer-backend/internal/models"
)

// Postgres implements Store on top of sqlx with the pgx stdlib driver.
type Postgres struct {
	DB *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{DB: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, username, password_hash, email, role, first_name, last_name,
	gender, age, city, country, profile_image, created_at`

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (username, password_hash, email, role, first_name, last_name,
	            gender, age, city, country, profile_image)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at`
	err := p.DB.QueryRowxContext(ctx, query,
		u.Username, u.PasswordHash, u.Email, u.Role, u.FirstName, u.LastName,
		u.Gender, u.Age, u.City, u.Country, u.ProfileImage,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *Postgres) GetUser(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := p.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := p.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := p.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) UpdateUser(ctx context.Context, id int, upd UserUpdate) (models.User, error) {
	tx, err := p.DB.Beginx()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var u models.User
	err = tx.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	}
	if upd.Age != nil {
		u.Age = *upd.Age
	}
	if upd.City != nil {
		u.City = *upd.City
	}
	if upd.Country != nil {
		u.Country = *upd.Country
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}

	query := `UPDATE users SET first_name = $1, last_name = $2, gender = $3, age = $4,
	            city = $5, country = $6, profile_image = $7
	          WHERE id = $8`
	if _, err := tx.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Gender, u.Age, u.City, u.Country, u.ProfileImage, id); err != nil {
		return models.User{}, err
	}

	return u, tx.Commit()
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := p.DB.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, err
}

const profileColumns = `id, user_id, bio, languages, categories, offer_voice_calls,
	offer_video_calls, voice_rate_cents, video_rate_cents, is_available, is_verified,
	commission_rate_bps, payout_info, referrer_id, profile_images`

func (p *Postgres) CreateModelProfile(ctx context.Context, mp *models.ModelProfile) error {
	query := `INSERT INTO model_profiles (user_id, bio, languages, categories, offer_voice_calls,
	            offer_video_calls, voice_rate_cents, video_rate_cents, is_available, is_verified,
	            commission_rate_bps, payout_info, referrer_id, profile_images)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	err := p.DB.QueryRowxContext(ctx, query,
		mp.UserID, mp.Bio, mp.Languages, mp.Categories, mp.OfferVoiceCalls,
		mp.OfferVideoCalls, mp.VoiceRateCents, mp.VideoRateCents, mp.IsAvailable, mp.IsVerified,
		mp.CommissionRateBps, mp.PayoutInfo, mp.ReferrerID, mp.ProfileImages,
	).Scan(&mp.ID)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *Postgres) GetModelProfile(ctx context.Context, userID int) (models.ModelProfile, error) {
	var mp models.ModelProfile
	err := p.DB.GetContext(ctx, &mp,
		`SELECT `+profileColumns+` FROM model_profiles WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return models.ModelProfile{}, ErrNotFound
	}
	return mp, err
}

func (p *Postgres) UpdateModelProfile(ctx context.Context, userID int, upd ProfileUpdate) (models.ModelProfile, error) {
	tx, err := p.DB.Beginx()
	if err != nil {
		return models.ModelProfile{}, err
	}
	defer tx.Rollback()

	var mp models.ModelProfile
	err = tx.GetContext(ctx, &mp,
		`SELECT `+profileColumns+` FROM model_profiles WHERE user_id = $1 FOR UPDATE`, userID)
	if err == sql.ErrNoRows {
		return models.ModelProfile{}, ErrNotFound
	}
	if err != nil {
		return models.ModelProfile{}, err
	}

	applyProfileUpdate(&mp, upd)

	query := `UPDATE model_profiles SET bio = $1, languages = $2, categories = $3,
	            offer_voice_calls = $4, offer_video_calls = $5, voice_rate_cents = $6,
	            video_rate_cents = $7, is_available = $8, payout_info = $9, profile_images = $10
	          WHERE user_id = $11`
	if _, err := tx.ExecContext(ctx, query,
		mp.Bio, mp.Languages, mp.Categories, mp.OfferVoiceCalls, mp.OfferVideoCalls,
		mp.VoiceRateCents, mp.VideoRateCents, mp.IsAvailable, mp.PayoutInfo, mp.ProfileImages,
		userID); err != nil {
		return models.ModelProfile{}, err
	}

	return mp, tx.Commit()
}

func applyProfileUpdate(mp *models.ModelProfile, upd ProfileUpdate) {
	if upd.Bio != nil {
		mp.Bio = *upd.Bio
	}
	if upd.Languages != nil {
		mp.Languages = *upd.Languages
	}
	if upd.Categories != nil {
		mp.Categories = *upd.Categories
	}
	if upd.OfferVoiceCalls != nil {
		mp.OfferVoiceCalls = *upd.OfferVoiceCalls
	}
	if upd.OfferVideoCalls != nil {
		mp.OfferVideoCalls = *upd.OfferVideoCalls
	}
	if upd.VoiceRateCents != nil {
		mp.VoiceRateCents = *upd.VoiceRateCents
	}
	if upd.VideoRateCents != nil {
		mp.VideoRateCents = *upd.VideoRateCents
	}
	if upd.IsAvailable != nil {
		mp.IsAvailable = *upd.IsAvailable
	}
	if upd.PayoutInfo != nil {
		mp.PayoutInfo = *upd.PayoutInfo
	}
	if upd.ProfileImages != nil {
		mp.ProfileImages = *upd.ProfileImages
	}
}

func (p *Postgres) ListModels(ctx context.Context, f ModelFilter) ([]ModelListing, error) {
	query := `SELECT u.id, u.username, u.password_hash, u.email, u.role, u.first_name,
	            u.last_name, u.gender, u.age, u.city, u.country, u.profile_image, u.created_at,
	            mp.id AS "profile.id", mp.user_id AS "profile.user_id", mp.bio AS "profile.bio",
	            mp.languages AS "profile.languages", mp.categories AS "profile.categories",
	            mp.offer_voice_calls AS "profile.offer_voice_calls",
	            mp.offer_video_calls AS "profile.offer_video_calls",
	            mp.voice_rate_cents AS "profile.voice_rate_cents",
	            mp.video_rate_cents AS "profile.video_rate_cents",
	            mp.is_available AS "profile.is_available",
	            mp.is_verified AS "profile.is_verified",
	            mp.commission_rate_bps AS "profile.commission_rate_bps",
	            mp.payout_info AS "profile.payout_info",
	            mp.referrer_id AS "profile.referrer_id",
	            mp.profile_images AS "profile.profile_images"
	          FROM model_profiles mp
	          JOIN users u ON u.id = mp.user_id
	          WHERE ($1 = false OR mp.is_available)
	            AND ($2 = false OR mp.offer_voice_calls)
	            AND ($3 = false OR mp.offer_video_calls)
	          ORDER BY u.id`

	type row struct {
		models.User
		Profile models.ModelProfile `db:"profile"`
	}
	var rows []row
	err := p.DB.SelectContext(ctx, &rows, query, f.Available, f.VoiceCalls, f.VideoCalls)
	if err != nil {
		return nil, err
	}

	// Language/category subset filtering happens here; both live in
	// JSON text columns.
	listings := []ModelListing{}
	for _, r := range rows {
		if !containsAll(r.Profile.Languages, f.Languages) {
			continue
		}
		if !containsAll(r.Profile.Categories, f.Categories) {
			continue
		}
		listings = append(listings, ModelListing{User: r.User, Profile: r.Profile})
	}
	return listings, nil
}

func containsAll(have models.StringList, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (p *Postgres) CreateWallet(ctx context.Context, userID int) error {
	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO wallets (user_id, balance_cents) VALUES ($1, 0)`, userID)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *Postgres) GetWallet(ctx context.Context, userID int) (models.Wallet, error) {
	var w models.Wallet
	err := p.DB.GetContext(ctx, &w,
		`SELECT id, user_id, balance_cents, updated_at FROM wallets WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return models.Wallet{}, ErrWalletNotFound
	}
	return w, err
}

func creditWalletTx(ctx context.Context, tx *sqlx.Tx, userID, deltaCents int) (models.Wallet, error) {
	var w models.Wallet
	err := tx.GetContext(ctx, &w,
		`UPDATE wallets SET balance_cents = balance_cents + $1, updated_at = now()
		 WHERE user_id = $2
		 RETURNING id, user_id, balance_cents, updated_at`, deltaCents, userID)
	if err == sql.ErrNoRows {
		return models.Wallet{}, ErrWalletNotFound
	}
	return w, err
}

func insertTransactionTx(ctx context.Context, tx *sqlx.Tx, t *models.Transaction) error {
	query := `INSERT INTO transactions (user_id, amount_cents, type, status, description,
	            related_entity_id, order_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	return tx.QueryRowxContext(ctx, query,
		t.UserID, t.AmountCents, t.Type, t.Status, t.Description, t.RelatedEntityID, t.OrderID,
	).Scan(&t.ID, &t.CreatedAt)
}

func (p *Postgres) ApplyWalletDelta(ctx context.Context, userID int, deltaCents int, entry models.Transaction) (models.Wallet, error) {
	tx, err := p.DB.Beginx()
	if err != nil {
		return models.Wallet{}, err
	}
	defer tx.Rollback()

	w, err := creditWalletTx(ctx, tx, userID, deltaCents)
	if err != nil {
		return models.Wallet{}, err
	}
	if err := insertTransactionTx(ctx, tx, &entry); err != nil {
		return models.Wallet{}, err
	}
	return w, tx.Commit()
}

func (p *Postgres) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	query := `INSERT INTO transactions (user_id, amount_cents, type, status, description,
	            related_entity_id, order_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	return p.DB.QueryRowxContext(ctx, query,
		t.UserID, t.AmountCents, t.Type, t.Status, t.Description, t.RelatedEntityID, t.OrderID,
	).Scan(&t.ID, &t.CreatedAt)
}

const transactionColumns = `id, user_id, amount_cents, type, status, description,
	related_entity_id, order_id, created_at`

func (p *Postgres) GetTransactionByOrderID(ctx context.Context, orderID string) (models.Transaction, error) {
	var t models.Transaction
	err := p.DB.GetContext(ctx, &t,
		`SELECT `+transactionColumns+` FROM transactions WHERE order_id = $1`, orderID)
	if err == sql.ErrNoRows {
		return models.Transaction{}, ErrNotFound
	}
	return t, err
}

func (p *Postgres) CompleteDeposit(ctx context.Context, orderID string) (models.Wallet, models.Transaction, error) {
	tx, err := p.DB.Beginx()
	if err != nil {
		return models.Wallet{}, models.Transaction{}, err
	}
	defer tx.Rollback()

	var t models.Transaction
	err = tx.GetContext(ctx, &t,
		`SELECT `+transactionColumns+` FROM transactions WHERE order_id = $1 FOR UPDATE`, orderID)
	if err == sql.ErrNoRows {
		return models.Wallet{}, models.Transaction{}, ErrNotFound
	}
	if err != nil {
		return models.Wallet{}, models.Transaction{}, err
	}
	if t.Status != models.TxPending {
		return models.Wallet{}, models.Transaction{}, ErrInvalidState
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE transactions SET status = $1 WHERE id = $2`, models.TxCompleted, t.ID); err != nil {
		return models.Wallet{}, models.Transaction{}, err
	}
	t.Status = models.TxCompleted

	w, err := creditWalletTx(ctx, tx, t.UserID, t.AmountCents)
	if err != nil {
		return models.Wallet{}, models.Transaction{}, err
	}
	return w, t, tx.Commit()
}

func (p *Postgres) ListTransactions(ctx context.Context, userID int) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := p.DB.SelectContext(ctx, &txs,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	return txs, err
}

const callColumns = `id, user_id, model_id, type, status, start_time, end_time, duration,
	rate_cents, total_cost_cents, room_id, room_token, created_at`

func (p *Postgres) CreateCallSession(ctx context.Context, s *models.CallSession) error {
	query := `INSERT INTO call_sessions (user_id, model_id, type, status, start_time,
	            rate_cents, room_id, room_token)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at`
	return p.DB.QueryRowxContext(ctx, query,
		s.UserID, s.ModelID, s.Type, s.Status, s.StartTime, s.RateCents, s.RoomID, s.RoomToken,
	).Scan(&s.ID, &s.CreatedAt)
}

func (p *Postgres) GetCallSession(ctx context.Context, id int) (models.CallSession, error) {
	var s models.CallSession
	err := p.DB.GetContext(ctx, &s,
		`SELECT `+callColumns+` FROM call_sessions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return models.CallSession{}, ErrNotFound
	}
	return s, err
}

func (p *Postgres) ListCallSessionsByUser(ctx context.Context, userID int) ([]models.CallSession, error) {
	calls := []models.CallSession{}
	err := p.DB.SelectContext(ctx, &calls,
		`SELECT `+callColumns+` FROM call_sessions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	return calls, err
}

func (p *Postgres) ListCallSessionsByModel(ctx context.Context, modelID int) ([]models.CallSession, error) {
	calls := []models.CallSession{}
	err := p.DB.SelectContext(ctx, &calls,
		`SELECT `+callColumns+` FROM call_sessions WHERE model_id = $1 ORDER BY created_at DESC`,
		modelID)
	return calls, err
}

// SettleCall applies the whole settlement as one database transaction:
// session row locked and re-checked, caller debited, model credited,
// both ledger rows written, session closed. A session that is no longer
// active fails with ErrInvalidState and nothing is written.
func (p *Postgres) SettleCall(ctx context.Context, set CallSettlement) (models.CallSession, error) {
	tx, err := p.DB.Beginx()
	if err != nil {
		return models.CallSession{}, err
	}
	defer tx.Rollback()

	var s models.CallSession
	err = tx.GetContext(ctx, &s,
		`SELECT `+callColumns+` FROM call_sessions WHERE id = $1 FOR UPDATE`, set.CallID)
	if err == sql.ErrNoRows {
		return models.CallSession{}, ErrNotFound
	}
	if err != nil {
		return models.CallSession{}, err
	}
	if s.Status != models.CallActive {
		return models.CallSession{}, ErrInvalidState
	}

	if _, err := creditWalletTx(ctx, tx, s.UserID, -set.TotalCostCents); err != nil {
		return models.CallSession{}, err
	}
	if err := insertTransactionTx(ctx, tx, &models.Transaction{
		UserID:          s.UserID,
		AmountCents:     -set.TotalCostCents,
		Type:            models.TxCallCharge,
		Status:          models.TxCompleted,
		Description:     set.ChargeDescription,
		RelatedEntityID: s.ID,
	}); err != nil {
		return models.CallSession{}, err
	}

	if _, err := creditWalletTx(ctx, tx, s.ModelID, set.ModelCreditCents); err != nil {
		return models.CallSession{}, err
	}
	if err := insertTransactionTx(ctx, tx, &models.Transaction{
		UserID:          s.ModelID,
		AmountCents:     set.ModelCreditCents,
		Type:            models.TxCallRevenue,
		Status:          models.TxCompleted,
		Description:     set.RevenueDescription,
		RelatedEntityID: s.ID,
	}); err != nil {
		return models.CallSession{}, err
	}

	query := `UPDATE call_sessions SET status = $1, end_time = $2, duration = $3, total_cost_cents = $4
	          WHERE id = $5`
	if _, err := tx.ExecContext(ctx, query,
		models.CallCompleted, set.EndTime, set.DurationSeconds, set.TotalCostCents, s.ID); err != nil {
		return models.CallSession{}, err
	}

	s.Status = models.CallCompleted
	end := set.EndTime
	s.EndTime = &end
	s.Duration = set.DurationSeconds
	s.TotalCostCents = set.TotalCostCents
	return s, tx.Commit()
}

const scheduledColumns = `id, user_id, model_id, scheduled_time, duration, type, rate_cents,
	status, call_session_id, created_at`

func (p *Postgres) CreateScheduledCall(ctx context.Context, c *models.ScheduledCall) error {
	query := `INSERT INTO scheduled_calls (user_id, model_id, scheduled_time, duration, type,
	            rate_cents, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	return p.DB.QueryRowxContext(ctx, query,
		c.UserID, c.ModelID, c.ScheduledTime, c.Duration, c.Type, c.RateCents, c.Status,
	).Scan(&c.ID, &c.CreatedAt)
}

func (p *Postgres) GetScheduledCall(ctx context.Context, id int) (models.ScheduledCall, error) {
	var c models.ScheduledCall
	err := p.DB.GetContext(ctx, &c,
		`SELECT `+scheduledColumns+` FROM scheduled_calls WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return models.ScheduledCall{}, ErrNotFound
	}
	return c, err
}

func (p *Postgres) UpdateScheduledCallStatus(ctx context.Context, id int, status string) (models.ScheduledCall, error) {
	tx, err := p.DB.Beginx()
	if err != nil {
		return models.ScheduledCall{}, err
	}
	defer tx.Rollback()

	var c models.ScheduledCall
	err = tx.GetContext(ctx, &c,
		`SELECT `+scheduledColumns+` FROM scheduled_calls WHERE id = $1 FOR UPDATE`, id)
	if err == sql.ErrNoRows {
		return models.ScheduledCall{}, ErrNotFound
	}
	if err != nil {
		return models.ScheduledCall{}, err
	}
	if c.Status != models.SchedulePending {
		return models.ScheduledCall{}, ErrInvalidState
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE scheduled_calls SET status = $1 WHERE id = $2`, status, id); err != nil {
		return models.ScheduledCall{}, err
	}
	c.Status = status
	return c, tx.Commit()
}

func (p *Postgres) ListScheduledCallsForUser(ctx context.Context, userID int) ([]models.ScheduledCall, error) {
	calls := []models.ScheduledCall{}
	err := p.DB.SelectContext(ctx, &calls,
		`SELECT `+scheduledColumns+` FROM scheduled_calls
		 WHERE user_id = $1 OR model_id = $1 ORDER BY scheduled_time`, userID)
	return calls, err
}

func (p *Postgres) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `INSERT INTO messages (sender_id, receiver_id, content, is_read)
	          VALUES ($1, $2, $3, false)
	          RETURNING id, is_read, created_at`
	return p.DB.QueryRowxContext(ctx, query, m.SenderID, m.ReceiverID, m.Content).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
}

func (p *Postgres) GetMessage(ctx context.Context, id int) (models.Message, error) {
	var m models.Message
	err := p.DB.GetContext(ctx, &m,
		`SELECT id, sender_id, receiver_id, content, is_read, created_at
		 FROM messages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return models.Message{}, ErrNotFound
	}
	return m, err
}

func (p *Postgres) ListThread(ctx context.Context, userA, userB int) ([]models.Message, error) {
	msgs := []models.Message{}
	err := p.DB.SelectContext(ctx, &msgs,
		`SELECT id, sender_id, receiver_id, content, is_read, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at`, userA, userB)
	return msgs, err
}

func (p *Postgres) MarkMessageRead(ctx context.Context, id int) (models.Message, error) {
	var m models.Message
	err := p.DB.GetContext(ctx, &m,
		`UPDATE messages SET is_read = true WHERE id = $1
		 RETURNING id, sender_id, receiver_id, content, is_read, created_at`, id)
	if err == sql.ErrNoRows {
		return models.Message{}, ErrNotFound
	}
	return m, err
}

func (p *Postgres) CreateFavorite(ctx context.Context, f *models.Favorite) error {
	query := `INSERT INTO favorites (user_id, model_id) VALUES ($1, $2)
	          RETURNING id, created_at`
	err := p.DB.QueryRowxContext(ctx, query, f.UserID, f.ModelID).Scan(&f.ID, &f.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *Postgres) DeleteFavorite(ctx context.Context, userID, modelID int) error {
	res, err := p.DB.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND model_id = $2`, userID, modelID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) IsFavorite(ctx context.Context, userID, modelID int) (bool, error) {
	var exists bool
	err := p.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND model_id = $2)`,
		userID, modelID)
	return exists, err
}

func (p *Postgres) ListFavorites(ctx context.Context, userID int) ([]ModelListing, error) {
	var modelIDs []int
	err := p.DB.SelectContext(ctx, &modelIDs,
		`SELECT model_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	listings := []ModelListing{}
	for _, id := range modelIDs {
		u, err := p.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		mp, err := p.GetModelProfile(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, ModelListing{User: u, Profile: mp})
	}
	return listings, nil
}
