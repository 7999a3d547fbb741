package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

// ErrDeviceNotFound is returned for lookups of unknown MACs.
var ErrDeviceNotFound = ports.ErrDeviceNotFound

// SQLiteStore implements ports.Store using GORM and SQLite. A single
// *gorm.DB serializes writers; readers see the last committed state.
type SQLiteStore struct {
	db   *gorm.DB
	path string
	log  zerolog.Logger
}

// NewSQLiteStore opens (or creates) the database file and migrates the
// schema. Columns missing on an older file are added in place.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}

	// WAL keeps readers unblocked during the scanner's write bursts; the
	// busy timeout rides out the brief writer handoffs.
	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA busy_timeout = 5000")
	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(
		&DeviceModel{},
		&EventModel{},
		&SpeedTestModel{},
		&WebsiteCheckModel{},
		&SecurityScanModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	// Hot-path indexes beyond what the struct tags declare.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_devices_last_seen ON devices(last_seen)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_events_severity ON events(severity)")

	s := &SQLiteStore{db: db, path: path, log: logging.WithComponent("store")}
	s.backfillFingerprintFlags()
	return s, nil
}

// backfillFingerprintFlags migrates rows written before is_fingerprinted
// existed: a row with all three classification fields populated gets the
// flag set. The derived test is used only here; everywhere else the flag
// is authoritative.
func (s *SQLiteStore) backfillFingerprintFlags() {
	res := s.db.Model(&DeviceModel{}).
		Where("is_fingerprinted = ? AND device_type IS NOT NULL AND device_type NOT IN ('', 'unknown', 'unidentified') AND fingerprint_date IS NOT NULL AND fingerprint_date > 0 AND fingerprint_confidence IS NOT NULL", false).
		Update("is_fingerprinted", true)
	if res.Error != nil {
		s.log.Warn().Err(res.Error).Msg("fingerprint flag backfill failed")
	} else if res.RowsAffected > 0 {
		s.log.Info().Int64("rows", res.RowsAffected).Msg("backfilled is_fingerprinted flags")
	}
}

// UpsertDevice inserts on a new MAC with first_seen=last_seen=now, otherwise
// patches the provided fields and bumps last_seen. Stored hostname survives
// unless empty; stored vendor survives unless empty or equal to the incoming
// value (idempotent refresh).
func (s *SQLiteStore) UpsertDevice(mac, ip string, update domain.DeviceUpdate) (int64, error) {
	mac = domain.NormalizeMAC(mac)
	if mac == "" {
		return 0, errors.New("upsert: invalid MAC")
	}
	now := time.Now().Unix()

	var id int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing DeviceModel
		err := tx.Where("mac_address = ?", mac).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			model := DeviceModel{
				MACAddress: mac,
				IPAddress:  ip,
				FirstSeen:  now,
				LastSeen:   now,
			}
			if update.Hostname != nil {
				model.Hostname = *update.Hostname
			}
			if update.Vendor != nil {
				model.Vendor = *update.Vendor
			}
			applyFingerprint(&model, update.Fingerprint)
			if err := tx.Create(&model).Error; err != nil {
				// A concurrent insert on the same MAC degrades to an update.
				if fetchErr := tx.Where("mac_address = ?", mac).First(&existing).Error; fetchErr == nil {
					return s.patchExisting(tx, &existing, ip, now, update, &id)
				}
				return err
			}
			id = model.ID
			return nil

		case err != nil:
			return err

		default:
			return s.patchExisting(tx, &existing, ip, now, update, &id)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("upsert device %s: %w", mac, err)
	}
	return id, nil
}

func (s *SQLiteStore) patchExisting(tx *gorm.DB, existing *DeviceModel, ip string, now int64, update domain.DeviceUpdate, id *int64) error {
	updates := map[string]interface{}{
		"ip_address": ip,
	}
	// last_seen is monotonically non-decreasing, clock jumps included.
	if now > existing.LastSeen {
		updates["last_seen"] = now
	}
	if update.Hostname != nil && *update.Hostname != "" && existing.Hostname == "" {
		updates["hostname"] = *update.Hostname
	}
	if update.Vendor != nil && *update.Vendor != "" &&
		(existing.Vendor == "" || existing.Vendor == *update.Vendor) {
		updates["vendor"] = *update.Vendor
	}
	if fp := update.Fingerprint; fp != nil {
		updates["device_type"] = fp.DeviceType
		if fp.Model != "" {
			updates["device_model"] = fp.Model
		}
		if fp.Manufacturer != "" {
			updates["device_manufacturer"] = fp.Manufacturer
		}
		updates["fingerprint_confidence"] = fp.Confidence
		updates["fingerprint_date"] = fp.Date.Unix()
		updates["is_fingerprinted"] = true
	}

	if err := tx.Model(existing).Updates(updates).Error; err != nil {
		return err
	}
	*id = existing.ID
	return nil
}

func applyFingerprint(model *DeviceModel, fp *domain.FingerprintResult) {
	if fp == nil {
		return
	}
	t := fp.DeviceType
	model.DeviceType = &t
	if fp.Model != "" {
		m := fp.Model
		model.DeviceModel = &m
	}
	if fp.Manufacturer != "" {
		mf := fp.Manufacturer
		model.DeviceManufacturer = &mf
	}
	c := fp.Confidence
	model.FingerprintConfidence = &c
	d := fp.Date.Unix()
	model.FingerprintDate = &d
	model.IsFingerprinted = true
}

// UpdateDeviceMetadata writes a fingerprint result. Empty model/manufacturer
// fields are skipped rather than overwriting stored values with blanks.
func (s *SQLiteStore) UpdateDeviceMetadata(mac string, result domain.FingerprintResult) error {
	mac = domain.NormalizeMAC(mac)
	updates := map[string]interface{}{
		"device_type":            result.DeviceType,
		"fingerprint_confidence": result.Confidence,
		"fingerprint_date":       result.Date.Unix(),
		"is_fingerprinted":       true,
	}
	if result.Model != "" {
		updates["device_model"] = result.Model
	}
	if result.Manufacturer != "" {
		updates["device_manufacturer"] = result.Manufacturer
	}

	res := s.db.Model(&DeviceModel{}).Where("mac_address = ?", mac).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update metadata %s: %w", mac, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// ClearDeviceFingerprint nulls all five fingerprint fields and resets the
// flag, the contract forced re-fingerprinting relies on.
func (s *SQLiteStore) ClearDeviceFingerprint(mac string) error {
	mac = domain.NormalizeMAC(mac)
	res := s.db.Model(&DeviceModel{}).Where("mac_address = ?", mac).Updates(map[string]interface{}{
		"device_type":            nil,
		"device_model":           nil,
		"device_manufacturer":    nil,
		"fingerprint_confidence": nil,
		"fingerprint_date":       nil,
		"is_fingerprinted":       false,
	})
	if res.Error != nil {
		return fmt.Errorf("clear fingerprint %s: %w", mac, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (s *SQLiteStore) MarkImportant(mac string, important bool) error {
	return s.setDeviceFlag(mac, "is_important", important)
}

func (s *SQLiteStore) SetNeverFingerprint(mac string, never bool) error {
	return s.setDeviceFlag(mac, "never_fingerprint", never)
}

func (s *SQLiteStore) setDeviceFlag(mac, column string, value bool) error {
	mac = domain.NormalizeMAC(mac)
	res := s.db.Model(&DeviceModel{}).Where("mac_address = ?", mac).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("set %s on %s: %w", column, mac, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UpdateDeviceUserFields edits the user-owned columns. Nil pointers leave
// the stored value alone; user edits may overwrite scanner values.
func (s *SQLiteStore) UpdateDeviceUserFields(mac string, hostname, vendor, notes *string) error {
	mac = domain.NormalizeMAC(mac)
	updates := map[string]interface{}{}
	if hostname != nil {
		updates["hostname"] = *hostname
	}
	if vendor != nil {
		updates["vendor"] = *vendor
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.db.Model(&DeviceModel{}).Where("mac_address = ?", mac).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update device %s: %w", mac, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (s *SQLiteStore) GetDevice(mac string) (*domain.Device, error) {
	mac = domain.NormalizeMAC(mac)
	var model DeviceModel
	if err := s.db.Where("mac_address = ?", mac).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return toDeviceDomain(model), nil
}

// GetAllDevices returns every device ordered by last_seen descending.
func (s *SQLiteStore) GetAllDevices() ([]domain.Device, error) {
	var models []DeviceModel
	if err := s.db.Order("last_seen DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	devices := make([]domain.Device, len(models))
	for i, m := range models {
		devices[i] = *toDeviceDomain(m)
	}
	return devices, nil
}

func (s *SQLiteStore) CountDevices() (int64, error) {
	var n int64
	err := s.db.Model(&DeviceModel{}).Count(&n).Error
	return n, err
}

// AppendEvent inserts one event-log row. Events are never edited.
func (s *SQLiteStore) AppendEvent(kind domain.EventKind, severity domain.Severity, message string, details json.RawMessage) error {
	model := EventModel{
		Timestamp: time.Now().Unix(),
		Kind:      string(kind),
		Severity:  string(severity),
		Message:   message,
		Details:   string(details),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RecentEvents returns the newest events first. Alert-kind rows are
// excluded unless the filter asks for them.
func (s *SQLiteStore) RecentEvents(limit int, filter domain.EventFilter) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	q := s.db.Model(&EventModel{}).Order("timestamp DESC, id DESC").Limit(limit)
	if filter.Kind != "" {
		q = q.Where("kind = ?", string(filter.Kind))
	} else if !filter.IncludeAlerts {
		q = q.Where("kind != ?", string(domain.EventAlert))
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", string(filter.Severity))
	}

	var models []EventModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	events := make([]domain.Event, len(models))
	for i, m := range models {
		events[i] = toEventDomain(m)
	}
	return events, nil
}

func (s *SQLiteStore) CountEvents() (int64, error) {
	var n int64
	err := s.db.Model(&EventModel{}).Count(&n).Error
	return n, err
}

func (s *SQLiteStore) AppendSpeedSample(sample domain.SpeedSample) error {
	model := toSpeedModel(sample)
	if model.Timestamp == 0 {
		model.Timestamp = time.Now().Unix()
	}
	if err := s.db.Create(&model).Error; err != nil {
		return fmt.Errorf("append speed sample: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentSpeedSamples(limit int) ([]domain.SpeedSample, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []SpeedTestModel
	if err := s.db.Order("timestamp DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	samples := make([]domain.SpeedSample, len(models))
	for i, m := range models {
		samples[i] = toSpeedDomain(m)
	}
	return samples, nil
}

func (s *SQLiteStore) AppendWebsiteCheck(check domain.WebsiteCheck) error {
	model := toWebsiteModel(check)
	if model.Timestamp == 0 {
		model.Timestamp = time.Now().Unix()
	}
	if err := s.db.Create(&model).Error; err != nil {
		return fmt.Errorf("append website check: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WebsiteChecks(url string, limit int) ([]domain.WebsiteCheck, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.Model(&WebsiteCheckModel{}).Order("timestamp DESC").Limit(limit)
	if url != "" {
		q = q.Where("url = ?", url)
	}
	var models []WebsiteCheckModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	checks := make([]domain.WebsiteCheck, len(models))
	for i, m := range models {
		checks[i] = toWebsiteDomain(m)
	}
	return checks, nil
}

func (s *SQLiteStore) AppendSecurityScan(scan domain.SecurityScan) error {
	model, err := toSecurityModel(scan)
	if err != nil {
		return fmt.Errorf("encode security scan: %w", err)
	}
	if model.Timestamp == 0 {
		model.Timestamp = time.Now().Unix()
	}
	if err := s.db.Create(&model).Error; err != nil {
		return fmt.Errorf("append security scan: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SecurityScans(deviceID int64, limit int) ([]domain.SecurityScan, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.Model(&SecurityScanModel{}).Order("timestamp DESC").Limit(limit)
	if deviceID > 0 {
		q = q.Where("device_id = ?", deviceID)
	}
	var models []SecurityScanModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	scans := make([]domain.SecurityScan, 0, len(models))
	for _, m := range models {
		scan, err := toSecurityDomain(m)
		if err != nil {
			s.log.Warn().Err(err).Int64("scan_id", m.ID).Msg("skipping undecodable security scan")
			continue
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

// LatestSecurityScan returns the newest port audit for a device, or nil when
// none has run yet.
func (s *SQLiteStore) LatestSecurityScan(mac string) (*domain.SecurityScan, error) {
	dev, err := s.GetDevice(mac)
	if err != nil {
		return nil, err
	}
	var model SecurityScanModel
	err = s.db.Where("device_id = ?", dev.ID).Order("timestamp DESC").First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	scan, err := toSecurityDomain(model)
	if err != nil {
		return nil, err
	}
	return &scan, nil
}

// WipeDevices removes all devices and cascades to security scans, events,
// speed samples and website checks: a full reset.
func (s *SQLiteStore) WipeDevices() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM security_scans",
			"DELETE FROM events",
			"DELETE FROM speed_tests",
			"DELETE FROM website_checks",
			"DELETE FROM devices",
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("wipe: %w", err)
			}
		}
		return nil
	})
}

// DestroyStore closes the database and removes the backing file.
func (s *SQLiteStore) DestroyStore() error {
	if err := s.Close(); err != nil {
		return err
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", s.path+suffix, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure interface compliance
var _ ports.Store = (*SQLiteStore)(nil)
