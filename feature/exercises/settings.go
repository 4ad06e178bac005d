package exercises

import (
	"context"
	"errors"
	"fmt"

	"vocab-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Error codes of translator settings.
const (
	CodeTimeLimit   = "set_time_limit_exceeded"
	CodeRepetitions = "repetitions_amount_exceeded"
)

// SettingsPatch is the payload of PATCH /exercises/translator/settings.
// An answer_time_limit of 0 removes the limit.
type SettingsPatch struct {
	Mode            *TranslatorMode `json:"mode,omitempty" validate:"omitempty,oneof=free_input free_input_max variants"`
	AnswerTimeLimit *int            `json:"answer_time_limit,omitempty" validate:"omitempty,min=0"`
	Repetitions     *int            `json:"repetitions_amount,omitempty"`
	FromLanguage    *Direction      `json:"from_language,omitempty" validate:"omitempty,oneof=learning_to_native native_to_learning learning_to_learning alternately"`
}

func loadSettings(db *gorm.DB, userID uint) (*TranslatorSettings, error) {
	var st TranslatorSettings
	err := db.Where("user_id = ?", userID).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultTranslatorSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load translator settings: %w", err)
	}
	return &st, nil
}

// TranslatorSettings returns the user's translator defaults.
func (s *Service) TranslatorSettings(ctx context.Context, userID uint) (*TranslatorSettings, error) {
	return loadSettings(s.db.WithContext(ctx), userID)
}

// UpdateTranslatorSettings merges patch into the stored defaults and writes one row per user.
func (s *Service) UpdateTranslatorSettings(ctx context.Context, userID uint, patch SettingsPatch) (*TranslatorSettings, error) {
	if err := patch.check(); err != nil {
		return nil, err
	}
	var out *TranslatorSettings
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		st, err := loadSettings(uow.Tx, userID)
		if err != nil {
			return err
		}
		patch.apply(st)
		err = uow.Tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"mode", "answer_time_limit", "repetitions", "from_language", "updated_at"}),
		}).Create(st).Error
		if err != nil {
			return fmt.Errorf("save translator settings: %w", err)
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Translator settings saved", zap.Uint("user_id", userID), zap.String("mode", string(out.Mode)))
	return out, nil
}

func (p SettingsPatch) check() error {
	if p.AnswerTimeLimit != nil && *p.AnswerTimeLimit != 0 {
		if n := *p.AnswerTimeLimit; n < int(MinAnswerTime.Seconds()) || n > int(MaxAnswerTime.Seconds()) {
			return reconcile.Invalid(CodeTimeLimit, "answer_time_limit",
				fmt.Sprintf("Time limit must be in range from %s to %s.", MinAnswerTime, MaxAnswerTime))
		}
	}
	if p.Repetitions != nil && (*p.Repetitions < MinRepetitions || *p.Repetitions > MaxRepetitions) {
		return reconcile.Invalid(CodeRepetitions, "repetitions_amount",
			fmt.Sprintf("Repetitions amount must be in range from %d to %d.", MinRepetitions, MaxRepetitions))
	}
	return nil
}

func (p SettingsPatch) apply(st *TranslatorSettings) {
	if p.Mode != nil {
		st.Mode = *p.Mode
	}
	if p.AnswerTimeLimit != nil {
		if *p.AnswerTimeLimit == 0 {
			st.AnswerTimeLimit = nil
		} else {
			v := *p.AnswerTimeLimit
			st.AnswerTimeLimit = &v
		}
	}
	if p.Repetitions != nil {
		st.Repetitions = *p.Repetitions
	}
	if p.FromLanguage != nil {
		st.FromLanguage = *p.FromLanguage
	}
}
