package player

import "gorm.io/gorm"

type PlayerRepository interface {
	GetOrCreateByUsername(username string) (*Player, error)
	GetByUsername(username string) (*Player, error)
	Update(p *Player) error
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) GetOrCreateByUsername(username string) (*Player, error) {
	var p Player
	err := r.db.Where(Player{Username: username}).FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) GetByUsername(username string) (*Player, error) {
	var p Player
	if err := r.db.Where("username = ?", username).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) Update(p *Player) error {
	return r.db.Save(p).Error
}
