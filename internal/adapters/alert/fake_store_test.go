package alert

import (
	"encoding/json"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// fakeStore satisfies ports.Store with zero values; embed and override
// the methods a test cares about.
type fakeStore struct{}

func (fakeStore) UpsertDevice(string, string, domain.DeviceUpdate) (int64, error) { return 0, nil }
func (fakeStore) UpdateDeviceMetadata(string, domain.FingerprintResult) error     { return nil }
func (fakeStore) ClearDeviceFingerprint(string) error                             { return nil }
func (fakeStore) MarkImportant(string, bool) error                                { return nil }
func (fakeStore) SetNeverFingerprint(string, bool) error                          { return nil }
func (fakeStore) UpdateDeviceUserFields(string, *string, *string, *string) error  { return nil }
func (fakeStore) GetDevice(string) (*domain.Device, error)                        { return nil, nil }
func (fakeStore) GetAllDevices() ([]domain.Device, error)                         { return nil, nil }
func (fakeStore) CountDevices() (int64, error)                                    { return 0, nil }
func (fakeStore) AppendEvent(domain.EventKind, domain.Severity, string, json.RawMessage) error {
	return nil
}
func (fakeStore) RecentEvents(int, domain.EventFilter) ([]domain.Event, error)  { return nil, nil }
func (fakeStore) CountEvents() (int64, error)                                   { return 0, nil }
func (fakeStore) AppendSpeedSample(domain.SpeedSample) error                    { return nil }
func (fakeStore) RecentSpeedSamples(int) ([]domain.SpeedSample, error)          { return nil, nil }
func (fakeStore) AppendWebsiteCheck(domain.WebsiteCheck) error                  { return nil }
func (fakeStore) WebsiteChecks(string, int) ([]domain.WebsiteCheck, error)      { return nil, nil }
func (fakeStore) AppendSecurityScan(domain.SecurityScan) error                  { return nil }
func (fakeStore) SecurityScans(int64, int) ([]domain.SecurityScan, error)       { return nil, nil }
func (fakeStore) LatestSecurityScan(string) (*domain.SecurityScan, error)       { return nil, nil }
func (fakeStore) WipeDevices() error                                            { return nil }
func (fakeStore) DestroyStore() error                                           { return nil }
func (fakeStore) Close() error                                                  { return nil }
